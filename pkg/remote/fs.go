package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// Compile-time interface check: FS must implement Transport.
var _ Transport = (*FS)(nil)

// FS is a Transport over an afero filesystem. It backs file:// (the OS
// filesystem) and mem:// (a process-local in-memory filesystem) remotes.
type FS struct {
	mu        sync.Mutex
	fs        afero.Fs
	connected bool
}

// NewFS returns an FS transport over fs.
func NewFS(fs afero.Fs) *FS {
	return &FS{fs: fs}
}

// NewOSFS returns an FS transport over the host filesystem.
func NewOSFS() *FS {
	return NewFS(afero.NewOsFs())
}

// NewMemFS returns an FS transport over a fresh in-memory filesystem.
func NewMemFS() *FS {
	return NewFS(afero.NewMemMapFs())
}

// Fs returns the underlying filesystem.
func (t *FS) Fs() afero.Fs {
	return t.fs
}

// Connect opens the session. Only local hosts are accepted.
func (t *FS) Connect(ctx context.Context, opts Options) error {
	if err := ctx.Err(); err != nil {
		return NewPermanentError("fs", "connect", err)
	}
	switch opts.Host {
	case "", "localhost":
	default:
		return fmt.Errorf("fs: %w: remote host %q not supported", ErrInvalidOptions, opts.Host)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = true
	return nil
}

func (t *FS) session(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return NewPermanentError("fs", op, err)
	}
	if !t.connected {
		return NewPermanentError("fs", op, ErrNoSession)
	}
	return nil
}

// EnsureDir creates dir and its parents.
func (t *FS) EnsureDir(ctx context.Context, dir string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.session(ctx, "mkdir"); err != nil {
		return err
	}
	dir = path.Clean(dir)
	if dir == "." || dir == "/" {
		return nil
	}
	if err := t.fs.MkdirAll(filepath.FromSlash(dir), 0o755); err != nil {
		return NewPermanentError("fs", "mkdir", err)
	}
	return nil
}

// List returns the entries of dir.
func (t *FS) List(ctx context.Context, dir string) ([]Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.session(ctx, "list"); err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(t.fs, filepath.FromSlash(dir))
	if err != nil {
		return nil, NewPermanentError("fs", "list", err)
	}
	out := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		out = append(out, Entry{Name: fi.Name(), Size: fi.Size(), IsDir: fi.IsDir()})
	}
	return out, nil
}

// DownloadTo copies the file at p into w.
func (t *FS) DownloadTo(ctx context.Context, w io.Writer, p string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.session(ctx, "download"); err != nil {
		return err
	}
	f, err := t.fs.Open(filepath.FromSlash(p))
	if err != nil {
		return NewPermanentError("fs", "download:open", err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return NewPermanentError("fs", "download:copy", err)
	}
	return nil
}

// UploadFrom replaces the file at p. Content is written to a temporary file
// in the same directory and renamed into place, so readers never observe a
// partially written snapshot.
func (t *FS) UploadFrom(ctx context.Context, r io.Reader, p string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.session(ctx, "upload"); err != nil {
		return err
	}

	target := filepath.FromSlash(p)
	tmp, err := afero.TempFile(t.fs, filepath.Dir(target), "."+filepath.Base(target)+".tmp.*")
	if err != nil {
		return NewPermanentError("fs", "upload:create", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		t.fs.Remove(tmpPath)
		return NewPermanentError("fs", "upload:copy", err)
	}
	if err := tmp.Close(); err != nil {
		t.fs.Remove(tmpPath)
		return NewPermanentError("fs", "upload:close", err)
	}
	if err := t.fs.Chmod(tmpPath, os.FileMode(0o600)); err != nil {
		t.fs.Remove(tmpPath)
		return NewPermanentError("fs", "upload:chmod", err)
	}
	if err := t.fs.Rename(tmpPath, target); err != nil {
		t.fs.Remove(tmpPath)
		return NewPermanentError("fs", "upload:rename", err)
	}
	return nil
}

// Close ends the session.
func (t *FS) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = false
	return nil
}
