// Package remotetest provides in-process FTP and SFTP servers for tests,
// in the spirit of net/http/httptest. Servers listen on 127.0.0.1 with a
// random port and are stopped through t.Cleanup.
package remotetest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	crand "crypto/rand"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"testing"

	ftpserver "github.com/fclairamb/ftpserverlib"
	"github.com/pkg/sftp"
	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
)

// Credentials accepted by the test servers.
const (
	User     = "testuser"
	Password = "testpass"
)

// ---- FTP ----

// FTPServer is an in-process FTP server serving an afero filesystem.
type FTPServer struct {
	Addr string
	Host string
	Port int
	// Fs is the filesystem exposed to clients; tests inspect it directly.
	Fs afero.Fs
}

type ftpDriver struct {
	fs       afero.Fs
	listener net.Listener
}

func (d *ftpDriver) GetSettings() (*ftpserver.Settings, error) {
	return &ftpserver.Settings{
		Listener:    d.listener,
		IdleTimeout: 30,
	}, nil
}

func (d *ftpDriver) ClientConnected(_ ftpserver.ClientContext) (string, error) {
	return "cookiesync test FTP server", nil
}

func (d *ftpDriver) ClientDisconnected(_ ftpserver.ClientContext) {}

func (d *ftpDriver) AuthUser(_ ftpserver.ClientContext, user, pass string) (ftpserver.ClientDriver, error) {
	if (user == "anonymous" && pass == "anonymous") || (user == User && pass == Password) {
		return afero.NewBasePathFs(d.fs, "/"), nil
	}
	return nil, fmt.Errorf("invalid credentials")
}

func (d *ftpDriver) GetTLSConfig() (*tls.Config, error) {
	return nil, nil
}

// NewFTPServer starts an FTP server over fs. A nil fs selects a fresh
// in-memory filesystem.
func NewFTPServer(t testing.TB, fs afero.Fs) *FTPServer {
	t.Helper()
	if fs == nil {
		fs = afero.NewMemMapFs()
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}

	server := ftpserver.NewFtpServer(&ftpDriver{fs: fs, listener: listener})
	go func() {
		// Returns once Stop is called.
		_ = server.ListenAndServe()
	}()
	t.Cleanup(func() { server.Stop() })

	s := &FTPServer{Addr: listener.Addr().String(), Fs: fs}
	s.Host, s.Port = splitAddr(t, s.Addr)
	return s
}

// ---- SFTP ----

// SFTPServer is an in-process SSH server with the SFTP subsystem, serving the
// host filesystem. Tests place files below Root.
type SFTPServer struct {
	Addr    string
	Host    string
	Port    int
	HostKey ssh.PublicKey
	Root    string
}

// NewSFTPServer starts an SFTP server accepting User/Password.
func NewSFTPServer(t testing.TB) *SFTPServer {
	t.Helper()

	hostPrivKey, err := ecdsa.GenerateKey(elliptic.P256(), crand.Reader)
	if err != nil {
		t.Fatalf("generate host key: %v", err)
	}
	hostSigner, err := ssh.NewSignerFromKey(hostPrivKey)
	if err != nil {
		t.Fatalf("create host signer: %v", err)
	}

	config := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, password []byte) (*ssh.Permissions, error) {
			if c.User() == User && string(password) == Password {
				return nil, nil
			}
			return nil, fmt.Errorf("invalid credentials")
		},
	}
	config.AddHostKey(hostSigner)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go handleSSHConnection(conn, config)
		}
	}()
	t.Cleanup(func() { listener.Close() })

	s := &SFTPServer{
		Addr:    listener.Addr().String(),
		HostKey: hostSigner.PublicKey(),
		Root:    t.TempDir(),
	}
	s.Host, s.Port = splitAddr(t, s.Addr)
	return s
}

func handleSSHConnection(conn net.Conn, config *ssh.ServerConfig) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		return
	}
	defer sshConn.Close()

	go ssh.DiscardRequests(reqs)

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			newChannel.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		channel, requests, err := newChannel.Accept()
		if err != nil {
			continue
		}
		go func() {
			for req := range requests {
				if req.Type == "subsystem" && len(req.Payload) > 4 && string(req.Payload[4:]) == "sftp" {
					req.Reply(true, nil)
					server, err := sftp.NewServer(channel)
					if err != nil {
						channel.Close()
						return
					}
					server.Serve()
					server.Close()
					return
				}
				if req.WantReply {
					req.Reply(false, nil)
				}
			}
		}()
	}
}

func splitAddr(t testing.TB, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split %q: %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port %q: %v", portStr, err)
	}
	return host, port
}
