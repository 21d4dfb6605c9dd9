package delivery

import (
	"context"
	"os"

	"certifire/internal/ssh"
)

// RemoteFS is the subset of SFTP used to deliver artifacts.
type RemoteFS interface {
	Stat(path string) (os.FileInfo, error)
	Mkdir(path string) error
	WriteFile(path string, data []byte) error
	Chmod(path string, mode os.FileMode) error
	Remove(path string) error
}

// Session is a RemoteFS owned by one delivery call.
type Session interface {
	RemoteFS
	Close() error
}

// Connector opens sessions to remote hosts.
type Connector interface {
	Open(ctx context.Context, creds *ssh.Credentials) (Session, error)
}

type sshConnector struct {
	service *ssh.Service
}

// NewSSHConnector returns a Connector backed by SSH/SFTP.
func NewSSHConnector(service *ssh.Service) Connector {
	return &sshConnector{service: service}
}

func (c *sshConnector) Open(ctx context.Context, creds *ssh.Credentials) (Session, error) {
	session, err := c.service.Open(ctx, creds)

	if err != nil {
		return nil, err
	}

	return session, nil
}
