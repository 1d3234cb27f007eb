// Package remote implements the blob-store transports a cookie snapshot can
// live on: FTP/FTPS, SFTP, and afero-backed filesystems (the OS filesystem or
// an in-memory one). Every transport exposes the same session-oriented
// contract: connect once, then list, download and upload whole files.
package remote

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"time"
)

// Default connection parameters.
const (
	DefaultFTPPort  = 21
	DefaultSFTPPort = 22
	DefaultTimeout  = 30 * time.Second

	anonymousUser = "anonymous"
)

// ErrInvalidOptions is returned by Connect when the options cannot describe a
// session for the transport (e.g. a network transport without a host).
var ErrInvalidOptions = errors.New("invalid connection options")

// ErrNoSession is returned by transfer operations invoked before Connect or
// after Close.
var ErrNoSession = errors.New("no active session")

// Options holds the connection parameters for a transport session.
// Zero values select the documented defaults.
type Options struct {
	// Host is the server hostname or IP. Required for network transports.
	Host string
	// Port is the server port; 0 selects the protocol default (21 for FTP, 22 for SFTP).
	Port int
	// User is the login name; FTP defaults to "anonymous".
	User string
	// Password is the login password. SENSITIVE: never log.
	Password string
	// Secure enables explicit TLS (AUTH TLS) for FTP.
	Secure bool
	// Timeout bounds dialing and individual protocol exchanges; 0 means DefaultTimeout.
	Timeout time.Duration
	// KnownHostsPath is the TOFU known_hosts file used by SFTP.
	KnownHostsPath string
	// SSHKeyPath is an explicit private key for SFTP public-key auth.
	SSHKeyPath string
	// Debug, when non-nil, receives the protocol trace (FTP control channel).
	Debug io.Writer
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o Options) addr(defPort int) string {
	port := o.Port
	if port <= 0 {
		port = defPort
	}
	return net.JoinHostPort(o.Host, strconv.Itoa(port))
}

// Entry is a single directory listing entry.
type Entry struct {
	Name  string
	Size  int64
	IsDir bool
}

// Transport is the remote blob store contract used by the synced cookie store.
// A Transport holds at most one session; it is not safe for concurrent
// transfers and callers serialize operations.
type Transport interface {
	// Connect establishes the session.
	Connect(ctx context.Context, opts Options) error
	// EnsureDir creates dir and all missing parents.
	EnsureDir(ctx context.Context, dir string) error
	// List returns the entries of dir.
	List(ctx context.Context, dir string) ([]Entry, error)
	// DownloadTo streams the full content of the file at p into w.
	DownloadTo(ctx context.Context, w io.Writer, p string) error
	// UploadFrom replaces the file at p with the content read from r.
	UploadFrom(ctx context.Context, r io.Reader, p string) error
	// Close ends the session. Safe to call when not connected.
	Close() error
}

// ReadAll downloads the file at p into memory.
func ReadAll(ctx context.Context, t Transport, p string) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.DownloadTo(ctx, &buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
