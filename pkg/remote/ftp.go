package remote

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/jlaffaye/ftp"
)

// Compile-time interface check: FTP must implement Transport.
var _ Transport = (*FTP)(nil)

// FTP is a Transport over FTP, or FTPS with explicit TLS when Options.Secure
// is set. A single control connection is kept for the whole session.
type FTP struct {
	mu   sync.Mutex
	conn *ftp.ServerConn
}

// NewFTP returns an unconnected FTP transport.
func NewFTP() *FTP {
	return &FTP{}
}

// Connect dials the server, optionally upgrades to TLS, logs in and switches
// to binary mode. Missing credentials default to anonymous login.
func (f *FTP) Connect(ctx context.Context, opts Options) error {
	if opts.Host == "" {
		return fmt.Errorf("ftp: %w: host is required", ErrInvalidOptions)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn != nil {
		f.conn.Quit()
		f.conn = nil
	}

	dialOpts := []ftp.DialOption{
		ftp.DialWithTimeout(opts.timeout()),
		ftp.DialWithContext(ctx),
	}
	if opts.Secure {
		dialOpts = append(dialOpts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName: opts.Host,
			MinVersion: tls.VersionTLS12,
		}))
	}
	if opts.Debug != nil {
		dialOpts = append(dialOpts, ftp.DialWithDebugOutput(opts.Debug))
	}

	conn, err := ftp.Dial(opts.addr(DefaultFTPPort), dialOpts...)
	if err != nil {
		return classifyFTPError("connect", err)
	}

	user, password := opts.User, opts.Password
	if user == "" {
		user = anonymousUser
		if password == "" {
			password = anonymousUser
		}
	}
	if err := conn.Login(user, password); err != nil {
		conn.Quit()
		return classifyFTPError("login", err)
	}
	if err := conn.Type(ftp.TransferTypeBinary); err != nil {
		conn.Quit()
		return classifyFTPError("type", err)
	}

	f.conn = conn
	return nil
}

func (f *FTP) session(ctx context.Context, op string) (*ftp.ServerConn, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewPermanentError("ftp", op, err)
	}
	if f.conn == nil {
		return nil, NewPermanentError("ftp", op, ErrNoSession)
	}
	return f.conn, nil
}

// EnsureDir walks dir component by component, creating missing directories.
// The working directory is restored afterwards so relative paths keep
// resolving against the login directory.
func (f *FTP) EnsureDir(ctx context.Context, dir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conn, err := f.session(ctx, "mkdir")
	if err != nil {
		return err
	}

	dir = path.Clean(dir)
	if dir == "." || dir == "/" {
		return nil
	}

	cwd, err := conn.CurrentDir()
	if err != nil {
		return classifyFTPError("pwd", err)
	}
	defer conn.ChangeDir(cwd)

	if path.IsAbs(dir) {
		if err := conn.ChangeDir("/"); err != nil {
			return classifyFTPError("cwd", err)
		}
	}
	for _, part := range strings.Split(strings.Trim(dir, "/"), "/") {
		if err := conn.ChangeDir(part); err == nil {
			continue
		}
		if err := conn.MakeDir(part); err != nil {
			return classifyFTPError("mkdir", err)
		}
		if err := conn.ChangeDir(part); err != nil {
			return classifyFTPError("cwd", err)
		}
	}
	return nil
}

// List returns the entries of dir. Servers that return full paths are
// normalised to base names.
func (f *FTP) List(ctx context.Context, dir string) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conn, err := f.session(ctx, "list")
	if err != nil {
		return nil, err
	}

	entries, err := conn.List(dir)
	if err != nil {
		return nil, classifyFTPError("list", err)
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		name := path.Base(e.Name)
		if name == "." || name == ".." {
			continue
		}
		out = append(out, Entry{
			Name:  name,
			Size:  int64(e.Size),
			IsDir: e.Type == ftp.EntryTypeFolder,
		})
	}
	return out, nil
}

// DownloadTo retrieves p and copies it into w.
func (f *FTP) DownloadTo(ctx context.Context, w io.Writer, p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conn, err := f.session(ctx, "download")
	if err != nil {
		return err
	}

	resp, err := conn.Retr(p)
	if err != nil {
		return classifyFTPError("download:retr", err)
	}
	_, copyErr := io.Copy(w, resp)
	closeErr := resp.Close()
	if copyErr != nil {
		return classifyFTPError("download:copy", copyErr)
	}
	if closeErr != nil {
		return classifyFTPError("download:close", closeErr)
	}
	return nil
}

// UploadFrom stores r at p, replacing any existing file.
func (f *FTP) UploadFrom(ctx context.Context, r io.Reader, p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conn, err := f.session(ctx, "upload")
	if err != nil {
		return err
	}

	if err := conn.Stor(p, r); err != nil {
		return classifyFTPError("upload", err)
	}
	return nil
}

// Close sends QUIT and drops the connection.
func (f *FTP) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil {
		return nil
	}
	err := f.conn.Quit()
	f.conn = nil
	if err != nil {
		return classifyFTPError("quit", err)
	}
	return nil
}
