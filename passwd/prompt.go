package passwd

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

// getpass prints the prompt and reads a secret from the terminal with local
// echo disabled. A newline is printed after the read so following output
// starts on a fresh line. The returned buffer belongs to the caller and must
// be wiped when no longer needed.
func getpass(prompt string, w io.Writer) ([]byte, error) {
	fmt.Fprint(w, prompt)
	p, err := readPassword()
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// wipe zeroes a secret buffer in place.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
