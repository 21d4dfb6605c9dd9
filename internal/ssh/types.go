package ssh

import (
	"fmt"
	"net"
	"time"
)

// Credentials describes how to reach and authenticate against a remote host.
type Credentials struct {
	Host     string
	Port     uint
	Username string
	// Password authentication, preferred when set
	Password string
	// Key-based authentication
	PrivateKeyPath string
	// Passphrase for private key (if encrypted)
	Passphrase string

	// StrictHostKeyChecking verifies the server key against KnownHostsPath.
	// Any host key is accepted when it is false.
	StrictHostKeyChecking bool
	KnownHostsPath        string

	// Timeout bounds dial and handshake. Zero means DefaultTimeout.
	Timeout time.Duration
}

const (
	DefaultPort    uint = 22
	DefaultTimeout      = 10 * time.Second
)

func (c *Credentials) port() uint {
	if c.Port == 0 {
		return DefaultPort
	}
	return c.Port
}

func (c *Credentials) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Address returns host:port.
func (c *Credentials) Address() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.port()))
}

func (c *Credentials) String() string {
	return fmt.Sprintf("%s@%s", c.Username, c.Address())
}
