package remote

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestFSTransport(t *testing.T) {
	ctx := context.Background()
	fs := NewMemFS()

	if err := fs.EnsureDir(ctx, "/jar"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession before Connect, got %v", err)
	}
	if err := fs.Connect(ctx, Options{Host: "example.com"}); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions for remote host, got %v", err)
	}
	if err := fs.Connect(ctx, Options{}); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := fs.EnsureDir(ctx, "/jar/sub"); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := fs.UploadFrom(ctx, strings.NewReader("first"), "/jar/sub/c.json"); err != nil {
		t.Fatalf("UploadFrom: %v", err)
	}
	if err := fs.UploadFrom(ctx, strings.NewReader("second"), "/jar/sub/c.json"); err != nil {
		t.Fatalf("UploadFrom (overwrite): %v", err)
	}

	entries, err := fs.List(ctx, "/jar/sub")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "c.json" {
		t.Errorf("List = %+v, want only c.json (no leftover temp files)", entries)
	}

	got, err := ReadAll(ctx, fs, "/jar/sub/c.json")
	if err != nil || string(got) != "second" {
		t.Errorf("ReadAll = %q, %v", got, err)
	}

	if err := fs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := fs.List(ctx, "/jar"); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession after Close, got %v", err)
	}
}

func TestOSFSTransport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := NewOSFS()
	if err := fs.Connect(ctx, Options{Host: "localhost"}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	target := filepath.ToSlash(filepath.Join(dir, "a", "jar.json"))
	if err := fs.EnsureDir(ctx, filepath.ToSlash(filepath.Join(dir, "a"))); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := fs.UploadFrom(ctx, strings.NewReader("{}"), target); err != nil {
		t.Fatalf("UploadFrom: %v", err)
	}
	b, err := afero.ReadFile(fs.Fs(), filepath.FromSlash(target))
	if err != nil || string(b) != "{}" {
		t.Errorf("ReadFile = %q, %v", b, err)
	}
}

func TestFSCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := NewMemFS()
	if err := fs.Connect(ctx, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
