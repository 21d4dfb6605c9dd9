package delivery

import (
	"errors"
	"fmt"
)

var (
	ErrTransfer           = errors.New("transfer failed")
	ErrMissingCertificate = errors.New("certificate body and private key are required")
	ErrMissingToken       = errors.New("token path is required")
)

// PathError records a directory that could not be created while
// materializing a remote path. It is never fatal on its own.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("couldn't create %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// TransferError is returned when a write or delete fails after the
// permission retry, or when any other step of a delivery fails after the
// session was established.
type TransferError struct {
	Host string
	Op   string
	Name string
	Err  error
}

func (e *TransferError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("couldn't %s on %s: %v", e.Op, e.Host, e.Err)
	}

	return fmt.Sprintf("couldn't %s %s on %s: %v", e.Op, e.Name, e.Host, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

func (e *TransferError) Is(target error) bool {
	return target == ErrTransfer
}
