package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Compile-time interface check: SFTP must implement Transport.
var _ Transport = (*SFTP)(nil)

// SFTP is a Transport over the SSH File Transfer Protocol. Host keys are
// verified trust-on-first-use against Options.KnownHostsPath.
type SFTP struct {
	mu     sync.Mutex
	ssh    *ssh.Client
	client *sftp.Client
}

// NewSFTP returns an unconnected SFTP transport.
func NewSFTP() *SFTP {
	return &SFTP{}
}

// Connect dials the SSH server, authenticates with the password when given
// or with a private key otherwise, and opens the SFTP subsystem.
func (s *SFTP) Connect(ctx context.Context, opts Options) error {
	if opts.Host == "" {
		return fmt.Errorf("sftp: %w: host is required", ErrInvalidOptions)
	}
	if opts.User == "" {
		return fmt.Errorf("sftp: %w: user is required", ErrInvalidOptions)
	}
	if opts.KnownHostsPath == "" {
		return fmt.Errorf("sftp: %w: known_hosts path is required", ErrInvalidOptions)
	}

	auth, err := buildAuthMethods(opts.Password, opts.SSHKeyPath)
	if err != nil {
		return NewPermanentError("sftp", "auth", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()

	config := &ssh.ClientConfig{
		User:            opts.User,
		Auth:            auth,
		HostKeyCallback: newTOFUHostKeyCallback(opts.KnownHostsPath),
		Timeout:         opts.timeout(),
	}

	addr := opts.addr(DefaultSFTPPort)
	dialer := &net.Dialer{Timeout: opts.timeout()}
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return classifySFTPError("connect", err)
	}
	c, chans, reqs, err := ssh.NewClientConn(netConn, addr, config)
	if err != nil {
		netConn.Close()
		return classifySFTPError("handshake", err)
	}
	sshClient := ssh.NewClient(c, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return classifySFTPError("subsystem", err)
	}

	s.ssh = sshClient
	s.client = client
	return nil
}

func (s *SFTP) session(ctx context.Context, op string) (*sftp.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewPermanentError("sftp", op, err)
	}
	if s.client == nil {
		return nil, NewPermanentError("sftp", op, ErrNoSession)
	}
	return s.client, nil
}

// EnsureDir creates dir and its parents.
func (s *SFTP) EnsureDir(ctx context.Context, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, err := s.session(ctx, "mkdir")
	if err != nil {
		return err
	}
	dir = path.Clean(dir)
	if dir == "." || dir == "/" {
		return nil
	}
	if err := client.MkdirAll(dir); err != nil {
		return classifySFTPError("mkdir", err)
	}
	return nil
}

// List returns the entries of dir.
func (s *SFTP) List(ctx context.Context, dir string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, err := s.session(ctx, "list")
	if err != nil {
		return nil, err
	}
	infos, err := client.ReadDir(dir)
	if err != nil {
		return nil, classifySFTPError("list", err)
	}
	out := make([]Entry, 0, len(infos))
	for _, fi := range infos {
		out = append(out, Entry{Name: fi.Name(), Size: fi.Size(), IsDir: fi.IsDir()})
	}
	return out, nil
}

// DownloadTo copies the remote file at p into w.
func (s *SFTP) DownloadTo(ctx context.Context, w io.Writer, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, err := s.session(ctx, "download")
	if err != nil {
		return err
	}
	f, err := client.Open(p)
	if err != nil {
		return classifySFTPError("download:open", err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return classifySFTPError("download:copy", err)
	}
	return nil
}

// UploadFrom truncates or creates the file at p and writes r into it.
func (s *SFTP) UploadFrom(ctx context.Context, r io.Reader, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, err := s.session(ctx, "upload")
	if err != nil {
		return err
	}
	f, err := client.Create(p)
	if err != nil {
		return classifySFTPError("upload:create", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return classifySFTPError("upload:copy", err)
	}
	if err := f.Close(); err != nil {
		return classifySFTPError("upload:close", err)
	}
	return nil
}

// Close closes the SFTP subsystem and the SSH connection.
func (s *SFTP) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *SFTP) closeLocked() error {
	var firstErr error
	if s.client != nil {
		firstErr = s.client.Close()
		s.client = nil
	}
	if s.ssh != nil {
		if err := s.ssh.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.ssh = nil
	}
	if firstErr != nil {
		return classifySFTPError("close", firstErr)
	}
	return nil
}

// buildAuthMethods returns password auth when a password is set, otherwise
// public-key auth from the first readable private key.
func buildAuthMethods(password, sshKeyPath string) ([]ssh.AuthMethod, error) {
	if password != "" {
		return []ssh.AuthMethod{ssh.Password(password)}, nil
	}

	keyPaths := resolveSSHKeyPaths(sshKeyPath)
	for _, kp := range keyPaths {
		pemBytes, err := os.ReadFile(kp)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(pemBytes)
		if err != nil {
			var ppErr *ssh.PassphraseMissingError
			if errors.As(err, &ppErr) {
				return nil, fmt.Errorf("SSH key %q is passphrase-protected; passphrase-protected keys are not supported", kp)
			}
			continue
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}

	return nil, fmt.Errorf("no authentication method available: provide a password or an SSH key at %s", strings.Join(keyPaths, ", "))
}

// resolveSSHKeyPaths returns the explicit key path, or ~/.ssh/id_ed25519 and
// ~/.ssh/id_rsa.
func resolveSSHKeyPaths(explicitPath string) []string {
	if explicitPath != "" {
		return []string{explicitPath}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".ssh", "id_ed25519"),
		filepath.Join(home, ".ssh", "id_rsa"),
	}
}
