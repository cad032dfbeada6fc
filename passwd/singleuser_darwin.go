//go:build darwin

package passwd

import (
	"golang.org/x/sys/unix"
)

// isSingleUser report whether the host booted into single-user mode,
// via the kern.singleuser kernel flag. Errors mean "no".
func isSingleUser() bool {
	su, err := unix.SysctlUint32("kern.singleuser")
	if err != nil {
		return false
	}
	return su != 0
}
