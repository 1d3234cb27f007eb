package remote

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	crand "crypto/rand"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/warpdl/cookiesync/pkg/remote/remotetest"
	"golang.org/x/crypto/ssh"
)

func sftpOptions(t *testing.T, srv *remotetest.SFTPServer) Options {
	return Options{
		Host:           srv.Host,
		Port:           srv.Port,
		User:           remotetest.User,
		Password:       remotetest.Password,
		Timeout:        5 * time.Second,
		KnownHostsPath: filepath.Join(t.TempDir(), "known_hosts"),
	}
}

func TestSFTPConnectValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no host", Options{User: "u", KnownHostsPath: "/tmp/kh"}},
		{"no user", Options{Host: "h", KnownHostsPath: "/tmp/kh"}},
		{"no known_hosts", Options{Host: "h", User: "u"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSFTP().Connect(context.Background(), tt.opts)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}
}

func TestSFTPRoundTrip(t *testing.T) {
	srv := remotetest.NewSFTPServer(t)
	opts := sftpOptions(t, srv)
	ctx := context.Background()

	s := NewSFTP()
	if err := s.Connect(ctx, opts); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer s.Close()

	dir := filepath.ToSlash(filepath.Join(srv.Root, "nested", "dir"))
	if err := s.EnsureDir(ctx, dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	target := dir + "/jar.json"
	if err := s.UploadFrom(ctx, strings.NewReader(`{"a":{}}`), target); err != nil {
		t.Fatalf("UploadFrom: %v", err)
	}

	entries, err := s.List(ctx, dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "jar.json" {
		t.Errorf("List = %+v, want [jar.json]", entries)
	}

	got, err := ReadAll(ctx, s, target)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != `{"a":{}}` {
		t.Errorf("ReadAll = %q", got)
	}

	onDisk, err := os.ReadFile(filepath.FromSlash(target))
	if err != nil || string(onDisk) != `{"a":{}}` {
		t.Errorf("server file = %q, %v", onDisk, err)
	}

	// The host key was pinned on first use.
	kh, err := os.ReadFile(opts.KnownHostsPath)
	if err != nil || len(kh) == 0 {
		t.Errorf("known_hosts not written: %v", err)
	}
}

func TestSFTPDownloadMissingIsPermanent(t *testing.T) {
	srv := remotetest.NewSFTPServer(t)
	s := NewSFTP()
	if err := s.Connect(context.Background(), sftpOptions(t, srv)); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer s.Close()

	err := s.DownloadTo(context.Background(), &bytes.Buffer{}, srv.Root+"/missing.json")
	if err == nil {
		t.Fatal("expected error")
	}
	if IsTransient(err) {
		t.Errorf("missing file should be permanent: %v", err)
	}
}

func TestSFTPWrongPassword(t *testing.T) {
	srv := remotetest.NewSFTPServer(t)
	opts := sftpOptions(t, srv)
	opts.Password = "wrong"
	if err := NewSFTP().Connect(context.Background(), opts); err == nil {
		t.Fatal("expected authentication failure")
	}
}

type fakeAddr struct{ network, address string }

func (a fakeAddr) Network() string { return a.network }
func (a fakeAddr) String() string  { return a.address }

var _ net.Addr = fakeAddr{}

func TestTOFUHostKeyCallback(t *testing.T) {
	khFile := filepath.Join(t.TempDir(), "sub", "known_hosts")
	cb := newTOFUHostKeyCallback(khFile)
	addr := fakeAddr{network: "tcp", address: "127.0.0.1:2222"}

	key1 := newTestPublicKey(t)
	key2 := newTestPublicKey(t)

	if err := cb("127.0.0.1:2222", addr, key1); err != nil {
		t.Fatalf("first use should be accepted: %v", err)
	}
	if err := cb("127.0.0.1:2222", addr, key1); err != nil {
		t.Fatalf("known key should be accepted: %v", err)
	}
	err := cb("127.0.0.1:2222", addr, key2)
	if err == nil || !strings.Contains(err.Error(), "host key changed") {
		t.Fatalf("changed key should be rejected, got %v", err)
	}
}

func newTestPublicKey(t *testing.T) ssh.PublicKey {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), crand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	return signer.PublicKey()
}

func TestBuildAuthMethods(t *testing.T) {
	t.Run("password wins", func(t *testing.T) {
		methods, err := buildAuthMethods("secret", "/nonexistent")
		if err != nil || len(methods) != 1 {
			t.Fatalf("got %d methods, err %v", len(methods), err)
		}
	})
	t.Run("missing key", func(t *testing.T) {
		_, err := buildAuthMethods("", filepath.Join(t.TempDir(), "id_missing"))
		if err == nil {
			t.Fatal("expected error when no key is readable")
		}
	})
}
