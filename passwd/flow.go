package passwd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/liut/dirpasswd/directory"
)

// Options carry the resolved invocation inputs.
type Options struct {
	Username string // target account, required
	Location string // explicit node location, optional
	AuthName string // authenticating identity, defaults to Username

	// Privileged is computed once at startup (real uid == 0) and passed
	// through explicitly instead of being read from a process global.
	Privileged bool
}

// Flow drives one password change:
// session, node, record, policy, prompts, commit.
type Flow struct {
	Service  Service
	Options  Options
	Progname string
	Stdout   io.Writer
	Stderr   io.Writer

	// Seams below default to the real implementations on first Run.
	SingleUser func() bool
	LoadDaemon func() error
	ReadSecret func(prompt string) ([]byte, error)
}

func (f *Flow) setDefaults() {
	if f.Stdout == nil {
		f.Stdout = os.Stdout
	}
	if f.Stderr == nil {
		f.Stderr = os.Stderr
	}
	if f.Progname == "" {
		f.Progname = "dirpasswd"
	}
	if f.SingleUser == nil {
		f.SingleUser = isSingleUser
	}
	if f.LoadDaemon == nil {
		f.LoadDaemon = loadLocalDaemon
	}
	if f.ReadSecret == nil {
		f.ReadSecret = func(prompt string) ([]byte, error) {
			return getpass(prompt, f.Stdout)
		}
	}
}

// Run execute the flow and return the process exit code: 0 on success or a
// user-declined change, 1 on any directory-service or daemon-load failure,
// -1 when no username was supplied (the caller renders usage).
func (f *Flow) Run() int {
	if f.Options.Username == "" {
		return -1
	}
	f.setDefaults()

	uname := f.Options.Username
	aname := f.Options.AuthName
	if aname == "" {
		aname = uname
	}
	location := f.Options.Location

	sess, err := f.Service.CreateSession()
	if err != nil {
		if directory.CodeOf(err) == directory.CodeSessionDaemonNotRunning &&
			f.SingleUser() && f.loadDaemon() {
			sess, err = f.Service.CreateLocalSession(directory.LocalDatabasePath)
			if err != nil {
				f.showError(err)
				return 1
			}
			if location == "" {
				location = directory.LocalDefaultNode
			}
		} else {
			f.showError(err)
			return 1
		}
	}

	var node Node
	if location != "" {
		node, err = sess.OpenNode(location)
	} else {
		node, err = sess.OpenSearchNode()
	}
	sess.Close()
	if err != nil {
		f.showError(err)
		return 1
	}

	rec, err := node.CopyRecord(uname)
	node.Close()
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			fmt.Fprintf(f.Stderr, "%s: Unknown user name '%s'.\n", f.Progname, uname)
		} else {
			f.showError(err)
		}
		return 1
	}
	defer rec.Close()

	// A record may resolve into a node different from the one searched;
	// the canonical location decides trust.
	if loc := rec.Location(); loc != "" {
		location = loc
	}

	fmt.Fprintf(f.Stdout, "Changing password for %s.\n", uname)

	needsAuth := !f.Options.Privileged || !strings.HasPrefix(location, directory.LocalNodePrefix)

	var oldpass, newpass []byte
	defer func() {
		wipe(oldpass)
		wipe(newpass)
	}()

	if needsAuth {
		prompt := "Old password:"
		if aname != uname {
			prompt = fmt.Sprintf("Password for %s:", aname)
		}
		if p, perr := f.ReadSecret(prompt); perr == nil {
			oldpass = p
		}
	}

	for {
		p, perr := f.ReadSecret("New password:")
		if perr != nil || len(p) == 0 {
			fmt.Fprintln(f.Stdout, "Password unchanged.")
			return 0
		}
		newpass = p

		v, verr := f.ReadSecret("Retype new password:")
		if verr == nil && bytes.Equal(newpass, v) {
			wipe(v)
			break
		}
		wipe(v)
		wipe(newpass)
		newpass = nil
		if verr == nil {
			fmt.Fprintln(f.Stdout, "Mismatch; try again, EOF to quit.")
		}
	}

	oldStr, newStr := string(oldpass), string(newpass)
	wipe(oldpass)
	wipe(newpass)
	oldpass, newpass = nil, nil

	if needsAuth {
		err = rec.SetPassword(newStr, aname, oldStr)
	} else {
		err = rec.ChangePassword("", newStr)
	}
	if err != nil {
		f.showError(err)
		return 1
	}
	return 0
}

func (f *Flow) loadDaemon() bool {
	if err := f.LoadDaemon(); err != nil {
		logger().Infow("local daemon load fail", "err", err)
		return false
	}
	return true
}

// showError render an error prefixed with the program name. A structured
// *directory.Error prints its description, failure reason and recovery
// suggestion, each optional, joined by double spaces.
func (f *Flow) showError(err error) {
	fmt.Fprintf(f.Stderr, "%s: %s\n", f.Progname, err)
}
