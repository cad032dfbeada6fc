package passwd

import (
	"github.com/liut/dirpasswd/directory"
)

// Service is the directory-service surface the change-password flow needs.
type Service interface {
	CreateSession() (Session, error)
	// CreateLocalSession open a session restricted to the local on-disk
	// database at the given path.
	CreateLocalSession(dbPath string) (Session, error)
}

// Session ...
type Session interface {
	OpenNode(location string) (Node, error)
	OpenSearchNode() (Node, error)
	Close()
}

// Node ...
type Node interface {
	CopyRecord(username string) (Record, error)
	Close()
}

// Record ...
type Record interface {
	Location() string
	ChangePassword(oldPasswd, newPasswd string) error
	SetPassword(newPasswd, authName, oldPasswd string) error
	Close()
}

// DirectoryService adapt a directory.Client to the flow's Service interface.
func DirectoryService(c *directory.Client) Service {
	return dirService{c: c}
}

type dirService struct {
	c *directory.Client
}

func (s dirService) CreateSession() (Session, error) {
	ds, err := s.c.CreateSession()
	if err != nil {
		return nil, err
	}
	return dirSession{s: ds}, nil
}

func (s dirService) CreateLocalSession(dbPath string) (Session, error) {
	ds, err := s.c.CreateSession(directory.WithLocalPath(dbPath))
	if err != nil {
		return nil, err
	}
	return dirSession{s: ds}, nil
}

type dirSession struct {
	s *directory.Session
}

func (w dirSession) OpenNode(location string) (Node, error) {
	n, err := w.s.OpenNode(location)
	if err != nil {
		return nil, err
	}
	return dirNode{n: n}, nil
}

func (w dirSession) OpenSearchNode() (Node, error) {
	n, err := w.s.OpenSearchNode()
	if err != nil {
		return nil, err
	}
	return dirNode{n: n}, nil
}

func (w dirSession) Close() {
	w.s.Close()
}

type dirNode struct {
	n *directory.Node
}

func (w dirNode) CopyRecord(username string) (Record, error) {
	rec, err := w.n.CopyRecord(username)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (w dirNode) Close() {
	w.n.Close()
}
