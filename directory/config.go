package directory

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

var (
	reUID = regexp.MustCompile("^[a-z_][a-z0-9-_]*$")
)

/*

	cfg := NewConfig()
	client, err := NewClient(cfg)
	if err != nil {
		log.Fatalf("new client ERR %s", err)
	}

*/

// Config directory client config
type Config struct {
	Addr      string `json:"addr"`      // network directory daemon address
	LocalAddr string `json:"localAddr"` // local on-disk database listener
	Base      string `json:"base"`      // Base DN
	Bind      string `json:"bind"`      // reader dn
	Passwd    string `json:"-"`         // reader passwd
	Domain    string `json:"domain"`
}

var zeroConfig = &Config{}

// NewConfig return default Config from Environment
func NewConfig() *Config {
	return &Config{
		Addr:      envOr("DIRD_ADDR", envOr("DIRPASSWD_DIRD_ADDR", "localhost")),
		LocalAddr: envOr("DIRD_LOCAL_ADDR", "ldapi://"+LocalDatabasePath+"/ldapi"),
		Base:      envOr("DIRD_BASE", envOr("DIRPASSWD_DIRD_BASE", "dc=mydomain,dc=net")),
		Domain:    envOr("DIRD_DOMAIN", envOr("DIRPASSWD_DIRD_DOMAIN", "mydomain.net")),
		Bind:      envOr("DIRD_BIND_DN", envOr("DIRPASSWD_DIRD_BIND_DN", "")),
		Passwd:    envOr("DIRD_PASSWD", envOr("DIRPASSWD_DIRD_PASS", "")),
	}
}

// CopyFrom ...
func (c *Config) CopyFrom(o Config) {
	if o.Addr != "" && o.Addr != c.Addr {
		c.Addr = o.Addr
	}
	if o.LocalAddr != "" && o.LocalAddr != c.LocalAddr {
		c.LocalAddr = o.LocalAddr
	}
	if o.Base != "" && o.Base != c.Base {
		c.Base = o.Base
	}
	if o.Domain != "" && o.Domain != c.Domain {
		c.Domain = o.Domain
	}
	if o.Bind != "" && o.Bind != c.Bind {
		c.Bind = o.Bind
	}
	if o.Passwd != "" && o.Passwd != c.Passwd {
		c.Passwd = o.Passwd
	}
}

// UDN build a user dn with the base
func (c *Config) UDN(uid string) string {
	return etUsers.DN(uid, c.Base)
}

// source maps a node location onto a dialable address.
func (c *Config) source(location string) (source, error) {
	switch {
	case strings.HasPrefix(location, LocalNodePrefix):
		return source{location: LocalDefaultNode, addr: c.LocalAddr}, nil
	case strings.HasPrefix(location, NetworkNodePrefix):
		host := strings.TrimPrefix(location, NetworkNodePrefix)
		if host == "" {
			return source{}, ErrEmptyAddr
		}
		return source{location: location, addr: host}, nil
	}
	return source{}, ErrUnknownNode
}

// searchSources return the ordered sources behind the authentication search
// node: the local database first, then the network directory.
func (c *Config) searchSources(localOnly bool) []source {
	srcs := []source{{location: LocalDefaultNode, addr: c.LocalAddr}}
	if !localOnly && c.Addr != "" {
		srcs = append(srcs, source{location: nodeLocation(c.Addr), addr: c.Addr})
	}
	return srcs
}

// nodeLocation derive the canonical node name for a directory address.
func nodeLocation(addr string) string {
	host := addr
	if u, err := url.Parse(addr); err == nil && u.Host != "" {
		host = u.Host
	}
	if pos := last(host, ':'); pos > 0 {
		host = host[:pos]
	}
	return NetworkNodePrefix + host
}

type entryType struct {
	PK, OC     string
	Filter     string
	Attributes []string
}

func newEntryType(pk, oc string, attrs ...string) (et *entryType) {
	et = &entryType{
		PK:         pk,
		OC:         oc,
		Attributes: attrs,
	}
	if oc == "" {
		oc = "*"
	}
	et.Filter = fmt.Sprintf("(objectclass=%s)", oc)

	return
}

// DN ...
func (et *entryType) DN(name, base string) string {
	return makeDN(et.PK, name, "ou=people,"+base)
}

func (et *entryType) oneFilter(value string) string {
	return "(&(" + et.PK + "=" + ldap.EscapeFilter(value) + ")" + et.Filter + ")"
}

func makeDN(pk, name, parent string) string {
	return fmt.Sprintf("%s=%s,%s", pk, name, parent)
}

// consts
const (
	TimeLayout = "20060102150405Z"

	// LocalNodePrefix marks records living in the trusted local database.
	LocalNodePrefix = "/Local/"
	// LocalDefaultNode is the default node of the local database.
	LocalDefaultNode = "/Local/Default"
	// NetworkNodePrefix names nodes served by a network directory.
	NetworkNodePrefix = "/LDAPv3/"
	// LocalDatabasePath is the fixed on-disk location of the local database.
	LocalDatabasePath = "/var/db/dirlocal"
)

var (
	etUsers = newEntryType("uid", "inetOrgPerson", "uid",
		"cn", "gn", "sn", "displayName", "mail", "description",
		"createTimestamp", "modifyTimestamp")
)

func envOr(key, dft string) string {
	v := os.Getenv(key)
	if v == "" {
		return dft
	}
	return v
}

// Index of rightmost occurrence of b in s.
func last(s string, b byte) int {
	i := len(s)
	for i--; i >= 0; i-- {
		if s[i] == b {
			break
		}
	}
	return i
}
