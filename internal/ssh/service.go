package ssh

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"certifire/internal/logger"

	"github.com/melbahja/goph"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Service opens SFTP sessions to remote hosts.
type Service struct {
	dial func(config *goph.Config) (*goph.Client, error)
}

func NewService() *Service {
	return &Service{dial: goph.NewConn}
}

// Open establishes an authenticated SSH connection and starts SFTP on it.
// Password auth wins over key auth when both are configured. Every failure
// is a *ConnectError; config errors never touch the network.
func (s *Service) Open(ctx context.Context, creds *Credentials) (*Session, error) {
	address := creds.Address()

	auth, err := authFor(creds)

	if err != nil {
		return nil, newConnectError(KindConfig, address, err, nil)
	}

	callback, err := hostKeyCallback(creds)

	if err != nil {
		return nil, newConnectError(KindConfig, address, ErrKnownHosts, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, newConnectError(KindConnectivity, address, ErrConnectivity, err)
	}

	logger.Info("Connecting to %s", creds.String())

	client, err := s.dial(&goph.Config{
		User:     creds.Username,
		Addr:     creds.Host,
		Port:     creds.port(),
		Auth:     auth,
		Timeout:  creds.timeout(),
		Callback: callback,
	})

	if err != nil {
		logger.Error("Connection to %s failed: %v", creds.String(), err)
		return nil, classifyDialError(address, err)
	}

	sftpClient, err := client.NewSftp()

	if err != nil {
		_ = client.Close()
		return nil, newConnectError(KindConnectivity, address, ErrSFTPSubsystem, err)
	}

	logger.Info("SSH connection to %s successful", creds.String())

	return &Session{client: client, sftp: sftpClient}, nil
}

// authFor picks exactly one auth method: password, else private key.
func authFor(creds *Credentials) (goph.Auth, error) {
	if creds.Password != "" {
		logger.Debug("Using password authentication for %s", creds.String())
		return goph.Password(creds.Password), nil
	}

	if creds.PrivateKeyPath != "" {
		logger.Debug("Using private key %s for %s", creds.PrivateKeyPath, creds.String())

		// The passphrase is ignored for keys that are not encrypted.
		auth, err := goph.Key(creds.PrivateKeyPath, "")

		var missing *ssh.PassphraseMissingError

		if errors.As(err, &missing) && creds.Passphrase != "" {
			auth, err = goph.Key(creds.PrivateKeyPath, creds.Passphrase)
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
		}

		return auth, nil
	}

	return nil, ErrNoAuthMethodProvided
}

func hostKeyCallback(creds *Credentials) (ssh.HostKeyCallback, error) {
	if !creds.StrictHostKeyChecking {
		return ssh.InsecureIgnoreHostKey(), nil
	}

	if creds.KnownHostsPath == "" {
		return nil, os.ErrNotExist
	}

	if _, err := os.Stat(creds.KnownHostsPath); err != nil {
		return nil, err
	}

	return knownhosts.New(creds.KnownHostsPath)
}

func classifyDialError(address string, err error) *ConnectError {
	if strings.Contains(err.Error(), "unable to authenticate") {
		return newConnectError(KindAuth, address, ErrAuthentication, err)
	}

	return newConnectError(KindConnectivity, address, ErrConnectivity, err)
}
