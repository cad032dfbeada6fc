package passwd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Loader command for the local directory daemon, used on the single-user
// bootstrap path. Overridable through the environment for hosts whose init
// system registers the daemon elsewhere.
var (
	daemonLoaderPath = envOr("DIRPASSWD_DAEMON_LOADER", "/bin/launchctl")
	daemonLoaderArgs = strings.Fields(envOr("DIRPASSWD_DAEMON_LOADER_ARGS",
		"load /System/Library/LaunchDaemons/com.dirservices.local.plist"))
)

// loadLocalDaemon spawn the loader, block on its exit status and require
// success. Attempted at most once per invocation.
func loadLocalDaemon() error {
	cmd := exec.Command(daemonLoaderPath, daemonLoaderArgs...)
	cmd.Stderr = os.Stderr
	logger().Infow("loading local directory daemon", "path", daemonLoaderPath, "args", daemonLoaderArgs)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", daemonLoaderPath, err)
	}
	return nil
}

func envOr(key, dft string) string {
	v := os.Getenv(key)
	if v == "" {
		return dft
	}
	return v
}
