package directory

import (
	"errors"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
)

func TestConfig(t *testing.T) {
	c := zeroConfig
	ec := NewConfig()
	c.CopyFrom(*ec)

	assert.NotEmpty(t, c.Addr)
	assert.NotEmpty(t, c.LocalAddr)
	assert.NotEmpty(t, c.Base)

	t.Logf("test base %s", c.Base)
}

func TestEntryType(t *testing.T) {
	base := "dc=example,dc=org"
	name := "nick"
	assert.Equal(t, "uid="+name+",ou=people,"+base, etUsers.DN(name, base))
	assert.Equal(t, "(&(uid=nick)(objectclass=inetOrgPerson))", etUsers.oneFilter(name))

	cfg := &Config{Base: base}
	assert.Equal(t, "uid=admin,ou=people,"+base, cfg.UDN("admin"))
}

func TestSourceMapping(t *testing.T) {
	cfg := &Config{
		Addr:      "ldap://ldap.example.org:389",
		LocalAddr: "ldapi:///var/db/dirlocal/ldapi",
		Base:      "dc=example,dc=org",
	}

	src, err := cfg.source(LocalDefaultNode)
	assert.NoError(t, err)
	assert.Equal(t, LocalDefaultNode, src.location)
	assert.Equal(t, cfg.LocalAddr, src.addr)

	src, err = cfg.source("/LDAPv3/ldap.example.org")
	assert.NoError(t, err)
	assert.Equal(t, "ldap.example.org", src.addr)

	_, err = cfg.source("/LDAPv3/")
	assert.Error(t, err)

	_, err = cfg.source("/NetInfo/root")
	assert.ErrorIs(t, err, ErrUnknownNode)

	srcs := cfg.searchSources(false)
	if assert.Len(t, srcs, 2) {
		assert.Equal(t, LocalDefaultNode, srcs[0].location)
		assert.Equal(t, "/LDAPv3/ldap.example.org", srcs[1].location)
	}
	srcs = cfg.searchSources(true)
	assert.Len(t, srcs, 1)
}

func TestNodeLocation(t *testing.T) {
	assert.Equal(t, "/LDAPv3/localhost", nodeLocation("localhost"))
	assert.Equal(t, "/LDAPv3/localhost", nodeLocation("localhost:389"))
	assert.Equal(t, "/LDAPv3/ldap.example.org", nodeLocation("ldaps://ldap.example.org:636"))
}

func TestClientFailed(t *testing.T) {
	_, err := NewClient(&Config{Addr: "localhost"})
	assert.ErrorIs(t, err, ErrEmptyBase)

	_, err = NewClient(&Config{Base: "dc=example,dc=org"})
	assert.ErrorIs(t, err, ErrEmptyAddr)
}

func TestOpenNode(t *testing.T) {
	cfg := &Config{
		Addr:      "ldap://ldap.example.org",
		LocalAddr: "ldapi:///var/db/dirlocal/ldapi",
		Base:      "dc=example,dc=org",
	}
	s := &Session{cfg: cfg}

	n, err := s.OpenNode(LocalDefaultNode)
	assert.NoError(t, err)
	assert.Equal(t, LocalDefaultNode, n.Location())

	_, err = s.OpenNode("/NetInfo/root")
	assert.Error(t, err)
	assert.Equal(t, CodeNodeUnknown, CodeOf(err))

	// a local-only session must not reach network nodes
	s = &Session{cfg: cfg, localOnly: true}
	_, err = s.OpenNode("/LDAPv3/ldap.example.org")
	assert.Equal(t, CodeNodeUnknown, CodeOf(err))

	sn, err := s.OpenSearchNode()
	assert.NoError(t, err)
	assert.Len(t, sn.sources, 1)
}

func TestCopyRecordArgs(t *testing.T) {
	n := &Node{cfg: &Config{Base: "dc=example,dc=org"}}

	_, err := n.CopyRecord("")
	assert.ErrorIs(t, err, ErrEmptyUID)

	_, err = n.CopyRecord("Bad Name")
	assert.ErrorIs(t, err, ErrInvalidUID)

	// no sources behave like an empty search
	_, err = n.CopyRecord("alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateSessionLocalMissing(t *testing.T) {
	cfg := &Config{
		Addr:      "ldap://ldap.example.org",
		LocalAddr: "ldapi:///nonexistent/dirlocal/ldapi",
		Base:      "dc=example,dc=org",
	}
	c, err := NewClient(cfg)
	assert.NoError(t, err)

	_, err = c.CreateSession(WithLocalPath("/nonexistent/dirlocal"))
	assert.Error(t, err)
	assert.Equal(t, CodeSessionDaemonNotRunning, CodeOf(err))
}

func TestErrorRendering(t *testing.T) {
	e := &Error{
		Description:        "Unable to change the password.",
		FailureReason:      "Credential verification failed.",
		RecoverySuggestion: "Verify the old password and try again.",
	}
	assert.Equal(t, "Unable to change the password.  Credential verification failed.  Verify the old password and try again.", e.Error())

	e = &Error{Description: "Unable to change the password."}
	assert.Equal(t, "Unable to change the password.", e.Error())

	e = &Error{FailureReason: "Credential verification failed."}
	assert.Equal(t, "Credential verification failed.", e.Error())

	e = &Error{cause: errors.New("boom")}
	assert.Equal(t, "boom", e.Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNone, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeNone, CodeOf(nil))

	err := passwordError(ErrLogin)
	assert.Equal(t, CodeAuthFailed, CodeOf(err))
	assert.ErrorIs(t, err, ErrLogin)

	err = lookupError(errors.New("network unreachable"))
	assert.Equal(t, CodeOperationFailed, CodeOf(err))
}

func TestDaemonNotRunning(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp",
		Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
	assert.True(t, isDaemonNotRunning(refused))
	assert.True(t, isDaemonNotRunning(ldap.NewError(ldap.ErrorNetwork, refused)))

	missing := &net.OpError{Op: "dial", Net: "unix",
		Err: os.NewSyscallError("connect", syscall.ENOENT)}
	assert.True(t, isDaemonNotRunning(missing))

	assert.False(t, isDaemonNotRunning(errors.New("other")))

	se := sessionError(refused)
	assert.Equal(t, CodeSessionDaemonNotRunning, se.Code)
	assert.NotEmpty(t, se.FailureReason)

	se = sessionError(errors.New("handshake broken"))
	assert.Equal(t, CodeSessionFailed, se.Code)
}

func TestEntryToAccount(t *testing.T) {
	entry := ldap.NewEntry("uid=doe,ou=people,dc=example,dc=org", map[string][]string{
		"uid":             {"doe"},
		"cn":              {"John Doe"},
		"sn":              {"Doe"},
		"gn":              {"John"},
		"mail":            {"doe@example.org"},
		"createTimestamp": {"20200102150405Z"},
	})

	u := entryToAccount(entry, LocalDefaultNode)
	assert.Equal(t, "doe", u.UID)
	assert.Equal(t, "John Doe", u.Name())
	assert.Equal(t, LocalDefaultNode, u.Location)
	assert.NotNil(t, u.Created)
	assert.Nil(t, u.Modified)

	u.CommonName = ""
	assert.Equal(t, "John Doe", u.Name())
	u.GivenName = ""
	assert.Equal(t, "doe", u.Name())
}
