package directory

import (
	"github.com/go-ldap/ldap/v3"
)

// Record is a resolved user account inside one node. The embedded Account
// carries the record attributes, including the canonical node location the
// entry actually resolved in.
type Record struct {
	Account *Account

	cfg *Config
	src source
	dn  string
}

// Location return the canonical node location of the record, which may differ
// from the node the search started in.
func (r *Record) Location() string {
	return r.Account.Location
}

// ChangePassword perform the standard old-to-new password change, binding as
// the record itself. An empty old password is the privileged local form and
// runs with the reader (manager) credentials instead.
func (r *Record) ChangePassword(oldPasswd, newPasswd string) error {
	if newPasswd == "" {
		return ErrEmptyPwd
	}
	if oldPasswd == "" {
		return r.modifyPassword(r.cfg.Bind, r.cfg.Passwd, "", newPasswd)
	}
	return r.modifyPassword(r.dn, oldPasswd, oldPasswd, newPasswd)
}

// SetPassword perform the extended set-credentials operation: authenticate as
// authName with oldPasswd, then set the record's password to newPasswd. This
// lets an administrator set another user's password without knowing it.
func (r *Record) SetPassword(newPasswd, authName, oldPasswd string) error {
	if newPasswd == "" {
		return ErrEmptyPwd
	}
	authDN := r.dn
	if authName != "" && authName != r.Account.UID {
		authDN = r.cfg.UDN(authName)
	}
	return r.modifyPassword(authDN, oldPasswd, "", newPasswd)
}

// Close ...
func (r *Record) Close() {}

func (r *Record) modifyPassword(bindDN, bindPasswd, oldPasswd, newPasswd string) error {
	err := r.cfg.op(r.src, bindDN, bindPasswd, func(c ldap.Client) error {
		pmr := ldap.NewPasswordModifyRequest(r.dn, oldPasswd, newPasswd)
		_, err := c.PasswordModify(pmr)
		return err
	})
	if err != nil {
		logger().Infow("PasswordModify fail", "uid", r.Account.UID, "err", err)
		return passwordError(err)
	}
	logger().Infow("PasswordModify OK", "uid", r.Account.UID)
	return nil
}
