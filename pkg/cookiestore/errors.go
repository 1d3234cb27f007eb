package cookiestore

import (
	"errors"
	"strings"
)

var (
	// ErrConfig reports a missing destination path or unusable connection
	// parameters. It is never retried.
	ErrConfig = errors.New("invalid store configuration")
	// ErrConnection reports that the transport session could not be
	// established or the destination directory could not be created.
	ErrConnection = errors.New("remote connection failed")
	// ErrCorruptSnapshot reports remote bytes that do not decode to a
	// cookie snapshot.
	ErrCorruptSnapshot = errors.New("corrupt cookie snapshot")
	// ErrNotConnected reports an operation attempted outside the Ready state.
	ErrNotConnected = errors.New("store is not connected")
	// ErrTransport reports an upload or download failure during a load or save.
	ErrTransport = errors.New("snapshot transfer failed")
	// ErrAlreadyConnected reports Connect on a store that is connecting or ready.
	ErrAlreadyConnected = errors.New("store is already connected")
)

// OpError is the error returned by store operations. Kind is one of the
// package sentinels; Err, when set, is the underlying cause. Both match
// errors.Is.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func newOpError(op string, kind, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Err: err}
}

func (e *OpError) Error() string {
	var b strings.Builder
	b.WriteString("cookiestore: ")
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
