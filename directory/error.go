package directory

import (
	"errors"
	"strings"
	"syscall"

	"github.com/go-ldap/ldap/v3"
)

// vars
var (
	ErrEmptyAddr   = errors.New("directory addr is empty")
	ErrEmptyBase   = errors.New("directory base is empty")
	ErrEmptyPwd    = errors.New("directory passwd is empty")
	ErrEmptyUID    = errors.New("directory uid is empty")
	ErrInvalidUID  = errors.New("directory uid is invalid")
	ErrLogin       = errors.New("Incorrect Username/Password")
	ErrNotFound    = errors.New("Not Found")
	ErrUnknownNode = errors.New("unknown node location")
)

// Code classifies a directory-service failure.
type Code int

// codes
const (
	CodeNone Code = iota
	CodeSessionFailed
	CodeSessionDaemonNotRunning
	CodeNodeUnknown
	CodeRecordNotFound
	CodeAuthFailed
	CodeOperationFailed
)

// Error is a structured directory-service error. Description, FailureReason
// and RecoverySuggestion are each optional and rendered independently.
type Error struct {
	Code               Code
	Description        string
	FailureReason      string
	RecoverySuggestion string

	cause error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{e.Description, e.FailureReason, e.RecoverySuggestion} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 && e.cause != nil {
		return e.cause.Error()
	}
	return strings.Join(parts, "  ")
}

func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf return the code carried by err, or CodeNone.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeNone
}

// isDaemonNotRunning report whether err means the directory daemon is not
// reachable at all: nobody listening on the port, or the local socket absent.
func isDaemonNotRunning(err error) bool {
	var le *ldap.Error
	if errors.As(err, &le) && le.Err != nil {
		err = le.Err
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ENOENT)
}

func sessionError(err error) *Error {
	if isDaemonNotRunning(err) {
		return &Error{
			Code:               CodeSessionDaemonNotRunning,
			Description:        "Unable to open a session with the directory service.",
			FailureReason:      "The directory service daemon is not running.",
			RecoverySuggestion: "Retry once the directory service daemon has started.",
			cause:              err,
		}
	}
	return &Error{
		Code:          CodeSessionFailed,
		Description:   "Unable to open a session with the directory service.",
		FailureReason: err.Error(),
		cause:         err,
	}
}

func lookupError(err error) *Error {
	return &Error{
		Code:          CodeOperationFailed,
		Description:   "Unable to read the user record.",
		FailureReason: err.Error(),
		cause:         err,
	}
}

func passwordError(err error) *Error {
	if errors.Is(err, ErrLogin) {
		return &Error{
			Code:               CodeAuthFailed,
			Description:        "Authentication failed.",
			FailureReason:      "The password supplied for authentication is not correct.",
			RecoverySuggestion: "Verify the old password and try again.",
			cause:              err,
		}
	}
	return &Error{
		Code:          CodeOperationFailed,
		Description:   "Unable to change the password.",
		FailureReason: err.Error(),
		cause:         err,
	}
}
