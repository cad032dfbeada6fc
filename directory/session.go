package directory

import (
	"crypto/tls"
	"errors"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Client holds a validated configuration for one directory service.
type Client struct {
	cfg *Config
}

// NewClient ...
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if cfg.Addr == "" && cfg.LocalAddr == "" {
		return nil, ErrEmptyAddr
	}
	if cfg.Base == "" {
		return nil, ErrEmptyBase
	}
	return &Client{cfg: cfg}, nil
}

type sessionOptions struct {
	localPath string
}

// SessionOption ...
type SessionOption func(*sessionOptions)

// WithLocalPath restrict the session to the local on-disk database rooted at
// the given path, bypassing the network directory daemon entirely.
func WithLocalPath(path string) SessionOption {
	return func(so *sessionOptions) {
		so.localPath = path
	}
}

// Session is a live connection context with the directory service. It only
// needs to outlive node creation; release it with Close once a node handle
// has been obtained.
type Session struct {
	cfg       *Config
	localOnly bool
}

// CreateSession verify the directory daemon is reachable and return a session
// handle. An unreachable daemon is reported as CodeSessionDaemonNotRunning so
// the caller can decide on the single-user bootstrap path.
func (c *Client) CreateSession(opts ...SessionOption) (*Session, error) {
	var so sessionOptions
	for _, opt := range opts {
		opt(&so)
	}

	s := &Session{cfg: c.cfg, localOnly: so.localPath != ""}
	addr := c.cfg.Addr
	if s.localOnly {
		addr = c.cfg.LocalAddr
		logger().Debugw("create local session", "path", so.localPath, "addr", addr)
	}

	conn, err := dial(addr)
	if err != nil {
		logger().Debugw("session dial fail", "addr", addr, "err", err)
		return nil, sessionError(err)
	}
	conn.Close()

	logger().Debugw("session ready", "addr", addr, "localOnly", s.localOnly)
	return s, nil
}

// OpenNode open a specific node by its location name.
func (s *Session) OpenNode(location string) (*Node, error) {
	src, err := s.cfg.source(location)
	if err == nil && s.localOnly && src.location != LocalDefaultNode {
		err = ErrUnknownNode
	}
	if err != nil {
		return nil, &Error{
			Code:          CodeNodeUnknown,
			Description:   "Unable to open the directory node '" + location + "'.",
			FailureReason: err.Error(),
			cause:         err,
		}
	}
	return &Node{cfg: s.cfg, location: src.location, sources: []source{src}}, nil
}

// OpenSearchNode open the authentication search node, which transparently
// searches all configured directory sources in order.
func (s *Session) OpenSearchNode() (*Node, error) {
	return &Node{cfg: s.cfg, sources: s.cfg.searchSources(s.localOnly)}, nil
}

// Close ...
func (s *Session) Close() {}

// source pairs a node location with the address serving it.
type source struct {
	location string
	addr     string
}

// Node is a handle to one directory partition, or to the ordered search list
// behind the authentication search node.
type Node struct {
	cfg      *Config
	location string // empty for the search node
	sources  []source
}

// Location ...
func (n *Node) Location() string {
	return n.location
}

// CopyRecord fetch the user record with an exact username match. A plain
// ErrNotFound means no source had the user; structured errors carry the
// underlying directory failure.
func (n *Node) CopyRecord(username string) (*Record, error) {
	if username == "" {
		return nil, ErrEmptyUID
	}
	if !reUID.MatchString(username) {
		return nil, ErrInvalidUID
	}

	var lastErr error
	for _, src := range n.sources {
		var entry *ldap.Entry
		err := n.cfg.op(src, n.cfg.Bind, n.cfg.Passwd, func(c ldap.Client) (err error) {
			entry, err = findOne(c, n.cfg.Base, etUsers.oneFilter(username), etUsers.Attributes...)
			return
		})
		if err == nil {
			logger().Debugw("record found", "uid", username, "location", src.location)
			return &Record{cfg: n.cfg, src: src, dn: entry.DN,
				Account: entryToAccount(entry, src.location)}, nil
		}
		if !errors.Is(err, ErrNotFound) {
			logger().Infow("record lookup fail", "uid", username, "location", src.location, "err", err)
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, lookupError(lastErr)
	}
	return nil, ErrNotFound
}

// Close ...
func (n *Node) Close() {}

func dial(addr string) (*ldap.Conn, error) {
	if !strings.Contains(addr, "://") {
		if last(addr, ':') < 0 {
			addr += ":389"
		}
		addr = "ldap://" + addr
	}
	logger().Debugw("dial directory", "addr", addr)
	return ldap.DialURL(addr, ldap.DialWithTLSConfig(&tls.Config{InsecureSkipVerify: true}))
}

type opFunc func(c ldap.Client) error

// op dials the source, optionally binds, runs op and closes the connection.
// A one-shot process gets no benefit from pooling connections.
func (c *Config) op(src source, dn, passwd string, op opFunc) error {
	conn, err := dial(src.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if dn != "" {
		if err = conn.Bind(dn, passwd); err != nil {
			logger().Infow("bind fail", "dn", dn, "addr", src.addr, "err", err)
			if le, ok := err.(*ldap.Error); ok {
				if le.ResultCode == ldap.LDAPResultInvalidCredentials ||
					le.ResultCode == ldap.LDAPResultInvalidDNSyntax {
					return ErrLogin
				}
			}
			return err
		}
		logger().Debugw("bind ok", "dn", dn, "addr", src.addr)
	}

	if op != nil {
		return op(conn)
	}
	return nil
}

func findOne(c ldap.Client, baseDN, filter string, attrs ...string) (*ldap.Entry, error) {
	search := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		filter,
		attrs,
		nil)
	sr, err := c.Search(search)
	if err == nil {
		count := len(sr.Entries)
		if count > 0 {
			if count > 1 {
				logger().Infow("found more than one entries", "baseDN", baseDN, "count", count)
			}

			return sr.Entries[0], nil
		}
		logger().Infow("search not found", "baseDN", baseDN, "filter", filter)
		return nil, ErrNotFound
	}

	if le, ok := err.(*ldap.Error); ok && le.ResultCode == ldap.LDAPResultNoSuchObject {
		logger().Debugw("search not found", "baseDN", baseDN, "filter", filter, "err", le)
		return nil, ErrNotFound
	}
	logger().Debugw("search fail", "baseDN", baseDN, "filter", filter, "err", err)
	return nil, err
}
