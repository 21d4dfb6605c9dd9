package delivery

import (
	"context"
	"errors"
	"path"
	"strings"

	"certifire/internal/logger"
)

// SplitPath returns every accumulated prefix of p, shortest first.
// Absolute paths start at "/"; relative paths start at their first segment.
//
//	SplitPath("/var/www/html") // ["/", "/var", "/var/www", "/var/www/html"]
func SplitPath(p string) []string {
	if p == "" {
		return nil
	}

	cleaned := path.Clean(p)

	var prefixes []string
	current := ""

	if strings.HasPrefix(cleaned, "/") {
		prefixes = append(prefixes, "/")
		current = "/"
	}

	for _, segment := range strings.Split(strings.TrimPrefix(cleaned, "/"), "/") {
		if segment == "" || segment == "." {
			continue
		}

		current = path.Join(current, segment)
		prefixes = append(prefixes, current)
	}

	return prefixes
}

// EnsurePath makes sure every directory of p exists, creating missing
// segments one level at a time. A segment that cannot be created is logged
// and the walk carries on with the next one; the result is not re-verified.
// The returned error joins one *PathError per failed segment.
func EnsurePath(ctx context.Context, fs RemoteFS, p string) error {
	var errs []error

	for _, prefix := range SplitPath(p) {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}

		if _, err := fs.Stat(prefix); err == nil {
			continue
		}

		logger.Info("%s doesn't exist, trying to create it", prefix)

		if err := fs.Mkdir(prefix); err != nil {
			logger.Warn("Couldn't create %s: %v", prefix, err)
			errs = append(errs, &PathError{Path: prefix, Err: err})
		}
	}

	return errors.Join(errs...)
}
