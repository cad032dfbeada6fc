//go:build linux

package passwd

import (
	"os"
	"strings"
)

// isSingleUser report whether the host booted into single-user (rescue)
// mode, going by the classic runlevel tokens on the kernel command line.
// A read failure means "no".
func isSingleUser() bool {
	b, err := os.ReadFile("/proc/cmdline")
	if err != nil {
		return false
	}
	return cmdlineSingleUser(string(b))
}

func cmdlineSingleUser(cmdline string) bool {
	for _, tok := range strings.Fields(cmdline) {
		switch tok {
		case "single", "S", "s", "1", "rescue", "emergency":
			return true
		}
	}
	return false
}
