package delivery

import (
	"context"
	"os"
	"path"

	"certifire/internal/logger"
	"certifire/internal/ssh"
)

const (
	// RetryMode is applied before retrying a write or delete that was denied.
	RetryMode os.FileMode = 0o600
	// FinalMode lets a web server running as another user read the artifact.
	FinalMode os.FileMode = 0o644
)

// Put writes each artifact into dir, in order. A write that fails with
// permission denied is retried once after chmod 0600; every written file
// ends with mode 0644. Artifacts with nil content are removed instead.
func Put(ctx context.Context, fs RemoteFS, dir string, artifacts Artifacts) error {
	for _, artifact := range artifacts {
		if err := ctx.Err(); err != nil {
			return &TransferError{Op: "upload", Name: artifact.Name, Err: err}
		}

		if artifact.Content == nil {
			if err := removeOne(fs, dir, artifact.Name); err != nil {
				return err
			}
			continue
		}

		if err := putOne(fs, dir, artifact); err != nil {
			return err
		}
	}

	return nil
}

func putOne(fs RemoteFS, dir string, artifact Artifact) error {
	target := path.Join(dir, artifact.Name)

	logger.Info("Uploading %s to %s", artifact.Name, dir)

	err := fs.WriteFile(target, artifact.Content)

	if err != nil && ssh.IsPermissionDenied(err) {
		logger.Warn("Uploading %s to %s returned permission denied, making file writable and retrying", artifact.Name, dir)

		if chmodErr := fs.Chmod(target, RetryMode); chmodErr != nil {
			return &TransferError{Op: "chmod", Name: target, Err: chmodErr}
		}

		err = fs.WriteFile(target, artifact.Content)
	}

	if err != nil {
		return &TransferError{Op: "upload", Name: target, Err: err}
	}

	if err := fs.Chmod(target, FinalMode); err != nil {
		return &TransferError{Op: "chmod", Name: target, Err: err}
	}

	return nil
}

// Remove deletes each named file from dir, retrying a denied delete once
// after chmod 0600.
func Remove(ctx context.Context, fs RemoteFS, dir string, names []string) error {
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return &TransferError{Op: "delete", Name: name, Err: err}
		}

		if err := removeOne(fs, dir, name); err != nil {
			return err
		}
	}

	return nil
}

func removeOne(fs RemoteFS, dir, name string) error {
	target := path.Join(dir, name)

	logger.Info("Deleting %s from %s", name, dir)

	err := fs.Remove(target)

	if err != nil && ssh.IsPermissionDenied(err) {
		logger.Warn("Deleting %s from %s returned permission denied, making file writable and retrying", name, dir)

		if chmodErr := fs.Chmod(target, RetryMode); chmodErr != nil {
			return &TransferError{Op: "chmod", Name: target, Err: chmodErr}
		}

		err = fs.Remove(target)
	}

	if err != nil {
		return &TransferError{Op: "delete", Name: target, Err: err}
	}

	return nil
}
