// Package sshtest runs an in-process SSH server with an in-memory SFTP
// filesystem for tests.
package sshtest

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	User     = "deploy"
	Password = "s3cret"
)

// Server accepts User with Password or with any authorized key. All
// sessions share one filesystem, so files written by one connection are
// visible to the next.
type Server struct {
	Host    string
	Port    uint
	HostKey ssh.Signer

	authorizedKeys []ssh.PublicKey
	handlers       sftp.Handlers
}

// NewServer starts a server on a random loopback port. It is stopped when
// the test ends.
func NewServer(t *testing.T, authorizedKeys ...ssh.PublicKey) *Server {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	hostKey, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)

	srv := &Server{
		HostKey:        hostKey,
		authorizedKeys: authorizedKeys,
		handlers:       sftp.InMemHandler(),
	}

	cfg := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if c.User() == User && string(pass) == Password {
				return nil, nil
			}
			return nil, errors.New("password rejected")
		},
		PublicKeyCallback: func(c ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			for _, k := range srv.authorizedKeys {
				if c.User() == User && string(k.Marshal()) == string(key.Marshal()) {
					return nil, nil
				}
			}
			return nil, errors.New("key rejected")
		},
	}
	cfg.AddHostKey(hostKey)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go srv.handleConn(conn, cfg)
		}
	}()

	srv.Host = "127.0.0.1"
	srv.Port = uint(ln.Addr().(*net.TCPAddr).Port)

	return srv
}

func (s *Server) handleConn(raw net.Conn, cfg *ssh.ServerConfig) {
	_, chans, reqs, err := ssh.NewServerConn(raw, cfg)
	if err != nil {
		_ = raw.Close()
		return
	}

	go ssh.DiscardRequests(reqs)

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			_ = newChannel.Reject(ssh.UnknownChannelType, "unsupported channel type")
			continue
		}

		channel, requests, err := newChannel.Accept()
		if err != nil {
			continue
		}

		go s.handleSession(channel, requests)
	}
}

func (s *Server) handleSession(channel ssh.Channel, requests <-chan *ssh.Request) {
	for req := range requests {
		// payload is a length-prefixed subsystem name
		isSFTP := req.Type == "subsystem" && len(req.Payload) > 4 && string(req.Payload[4:]) == "sftp"
		_ = req.Reply(isSFTP, nil)

		if isSFTP {
			go func() {
				server := sftp.NewRequestServer(channel, s.handlers)
				_ = server.Serve()
				_ = server.Close()
				_ = channel.Close()
			}()
		}
	}
}

// ReadFile reads a file straight from the server's filesystem.
func (s *Server) ReadFile(t *testing.T, path string) ([]byte, error) {
	t.Helper()

	client, closeFn := s.dialSFTP(t)
	defer closeFn()

	f, err := client.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// Exists reports whether path is present on the server.
func (s *Server) Exists(t *testing.T, path string) bool {
	t.Helper()

	client, closeFn := s.dialSFTP(t)
	defer closeFn()

	_, err := client.Stat(path)
	return err == nil
}

func (s *Server) dialSFTP(t *testing.T) (*sftp.Client, func()) {
	t.Helper()

	conn, err := ssh.Dial("tcp", s.Address(), &ssh.ClientConfig{
		User:            User,
		Auth:            []ssh.AuthMethod{ssh.Password(Password)},
		HostKeyCallback: ssh.FixedHostKey(s.HostKey.PublicKey()),
	})
	require.NoError(t, err)

	client, err := sftp.NewClient(conn)
	require.NoError(t, err)

	return client, func() {
		_ = client.Close()
		_ = conn.Close()
	}
}

// Address returns host:port.
func (s *Server) Address() string {
	return net.JoinHostPort(s.Host, fmt.Sprint(s.Port))
}

// WriteKnownHosts writes a known_hosts file trusting the server's host key.
func (s *Server) WriteKnownHosts(t *testing.T) string {
	t.Helper()

	line := knownhosts.Line([]string{knownhosts.Normalize(s.Address())}, s.HostKey.PublicKey())
	path := filepath.Join(t.TempDir(), "known_hosts")
	require.NoError(t, os.WriteFile(path, []byte(line+"\n"), 0o600))

	return path
}

// WriteClientKey generates an ed25519 key pair and stores the private half
// as an OpenSSH PEM file, encrypted when passphrase is non-empty.
func WriteClientKey(t *testing.T, passphrase string) (string, ssh.PublicKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	var block *pem.Block
	if passphrase != "" {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "sshtest", []byte(passphrase))
	} else {
		block, err = ssh.MarshalPrivateKey(priv, "sshtest")
	}
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))

	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)

	return path, sshPub
}

// ClosedPort returns a loopback port nothing listens on.
func ClosedPort(t *testing.T) uint {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := uint(ln.Addr().(*net.TCPAddr).Port)
	require.NoError(t, ln.Close())

	return port
}
