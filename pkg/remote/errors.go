package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"os"

	"golang.org/x/crypto/ssh"
)

// Error is a transport failure annotated with the protocol and operation that
// produced it. Transient errors (network failures, FTP 4xx replies) may
// succeed if the caller reconnects and tries again; retry policy is left to
// the caller.
type Error struct {
	// Protocol identifies the transport ("ftp", "sftp", "fs").
	Protocol string
	// Op is the operation that failed (e.g. "connect", "list", "upload").
	Op string
	// Cause is the underlying error.
	Cause error
	// transient indicates whether the error may be retried.
	transient bool
}

// Error implements the error interface.
// Format: "protocol op: cause"
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %s", e.Protocol, e.Op, e.Cause.Error())
	}
	return fmt.Sprintf("%s %s", e.Protocol, e.Op)
}

// Unwrap returns the underlying cause, enabling errors.Is/As chaining.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsTransient returns true if this error is transient and may be retried.
func (e *Error) IsTransient() bool {
	return e.transient
}

// NewTransientError creates an Error that may be retried.
func NewTransientError(protocol, op string, cause error) *Error {
	return &Error{Protocol: protocol, Op: op, Cause: cause, transient: true}
}

// NewPermanentError creates an Error that should not be retried.
func NewPermanentError(protocol, op string, cause error) *Error {
	return &Error{Protocol: protocol, Op: op, Cause: cause}
}

// IsTransient reports whether err (or anything it wraps) is a transient
// transport error.
func IsTransient(err error) bool {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.IsTransient()
	}
	return false
}

// classifyFTPError classifies FTP errors into transient or permanent.
// RFC 959: 4xx codes are transient, 5xx are permanent.
// Network errors and deadlines are treated as transient.
func classifyFTPError(op string, err error) error {
	if err == nil {
		return nil
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		if tpErr.Code >= 400 && tpErr.Code < 500 {
			return NewTransientError("ftp", op, err)
		}
		return NewPermanentError("ftp", op, err)
	}

	if isNetworkError(err) {
		return NewTransientError("ftp", op, err)
	}
	return NewPermanentError("ftp", op, err)
}

// classifySFTPError classifies SFTP/SSH errors into transient or permanent.
// os.ErrNotExist and *ssh.ExitError are permanent. net.Error is transient.
func classifySFTPError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return NewPermanentError("sftp", op, err)
	}

	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return NewPermanentError("sftp", op, err)
	}

	if isNetworkError(err) {
		return NewTransientError("sftp", op, err)
	}
	return NewPermanentError("sftp", op, err)
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
