package ssh

import (
	"errors"
	"fmt"
)

// Kind classifies connection failures so callers can tell misconfiguration
// from transient network trouble.
type Kind string

const (
	KindConfig       Kind = "config"
	KindAuth         Kind = "auth"
	KindConnectivity Kind = "connectivity"
)

// Configuration errors, raised before any network call
var (
	ErrNoAuthMethodProvided = errors.New("no password or private key supplied")
	ErrInvalidPrivateKey    = errors.New("failed to load private key")
	ErrKnownHosts           = errors.New("failed to load known_hosts")
)

// Connection errors
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrConnectivity   = errors.New("no valid connection")
	ErrSFTPSubsystem  = errors.New("failed to start sftp subsystem")
)

// ConnectError is returned by Service.Open for every failure.
type ConnectError struct {
	Kind    Kind
	Address string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("couldn't connect to %s (%s error): %v", e.Address, e.Kind, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

func newConnectError(kind Kind, address string, sentinel error, cause error) *ConnectError {
	err := sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %v", sentinel, cause)
	}

	return &ConnectError{Kind: kind, Address: address, Err: err}
}

// KindOf reports the Kind of a connection failure anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var connectErr *ConnectError

	if errors.As(err, &connectErr) {
		return connectErr.Kind, true
	}

	return "", false
}

func IsConfigError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindConfig
}

func IsAuthError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindAuth
}

func IsConnectivityError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindConnectivity
}
