package ssh

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/melbahja/goph"
	"github.com/pkg/sftp"
)

// SSH_FX_PERMISSION_DENIED from the SFTP wire protocol
const sshFxPermissionDenied = 3

// Session pairs an SSH connection with the SFTP client running on top of
// it. It is owned by a single caller and must be closed exactly once.
type Session struct {
	client *goph.Client
	sftp   *sftp.Client
}

func (s *Session) Stat(path string) (os.FileInfo, error) {
	return s.sftp.Stat(path)
}

// Mkdir creates a single directory; parents are not created.
func (s *Session) Mkdir(path string) error {
	return s.sftp.Mkdir(path)
}

// WriteFile creates or truncates path and writes data to it.
func (s *Session) WriteFile(path string, data []byte) error {
	f, err := s.sftp.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)

	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func (s *Session) ReadFile(path string) ([]byte, error) {
	f, err := s.sftp.Open(path)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	return io.ReadAll(f)
}

func (s *Session) Chmod(path string, mode os.FileMode) error {
	return s.sftp.Chmod(path, mode)
}

func (s *Session) Remove(path string) error {
	return s.sftp.Remove(path)
}

// Close releases the SFTP client and then the SSH connection.
func (s *Session) Close() error {
	var errs []error

	if s.sftp != nil {
		if err := s.sftp.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if s.client != nil {
		if err := s.client.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// IsPermissionDenied reports whether err is an SFTP or filesystem
// permission failure.
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, fs.ErrPermission) {
		return true
	}

	var statusErr *sftp.StatusError

	return errors.As(err, &statusErr) && statusErr.Code == sshFxPermissionDenied
}
