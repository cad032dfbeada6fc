package passwd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetpass(t *testing.T) {
	orig := readPassword
	defer func() { readPassword = orig }()

	readPassword = func() ([]byte, error) {
		return []byte("secret"), nil
	}

	var out bytes.Buffer
	p, err := getpass("New password:", &out)
	assert.NoError(t, err)
	assert.Equal(t, []byte("secret"), p)
	assert.Equal(t, "New password:\n", out.String())

	readPassword = func() ([]byte, error) {
		return nil, errors.New("inappropriate ioctl for device")
	}
	_, err = getpass("New password:", &out)
	assert.Error(t, err)
}

func TestWipe(t *testing.T) {
	b := []byte("secret")
	wipe(b)
	assert.Equal(t, make([]byte, 6), b)

	wipe(nil)
}
