package delivery

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"certifire/internal/ssh"
)

var errPermission = &fs.PathError{Op: "open", Path: "remote", Err: fs.ErrPermission}

type fsCall struct {
	Op   string
	Path string
	Mode os.FileMode
}

// fakeFS records every call. Errors queued in writeErrs and removeErrs are
// returned one per call, in order.
type fakeFS struct {
	mu sync.Mutex

	calls    []fsCall
	existing map[string]bool
	files    map[string][]byte

	mkdirErrs  map[string]error
	writeErrs  []error
	removeErrs []error
	chmodErr   error
	closeErr   error
	closed     int
}

func newFakeFS(existing ...string) *fakeFS {
	f := &fakeFS{
		existing:  map[string]bool{},
		files:     map[string][]byte{},
		mkdirErrs: map[string]error{},
	}

	for _, p := range existing {
		f.existing[p] = true
	}

	return f
}

func (f *fakeFS) record(op, p string, mode os.FileMode) {
	f.calls = append(f.calls, fsCall{Op: op, Path: p, Mode: mode})
}

func (f *fakeFS) ops(op string) []fsCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []fsCall
	for _, c := range f.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeFS) Stat(p string) (os.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("stat", p, 0)

	if f.existing[p] {
		return fakeInfo{name: p}, nil
	}

	return nil, os.ErrNotExist
}

func (f *fakeFS) Mkdir(p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("mkdir", p, 0)

	if err := f.mkdirErrs[p]; err != nil {
		return err
	}

	f.existing[p] = true

	return nil
}

func (f *fakeFS) WriteFile(p string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("write", p, 0)

	if len(f.writeErrs) > 0 {
		err := f.writeErrs[0]
		f.writeErrs = f.writeErrs[1:]

		if err != nil {
			return err
		}
	}

	f.files[p] = append([]byte{}, data...)

	return nil
}

func (f *fakeFS) Chmod(p string, mode os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("chmod", p, mode)

	return f.chmodErr
}

func (f *fakeFS) Remove(p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.record("remove", p, 0)

	if len(f.removeErrs) > 0 {
		err := f.removeErrs[0]
		f.removeErrs = f.removeErrs[1:]

		if err != nil {
			return err
		}
	}

	delete(f.files, p)

	return nil
}

func (f *fakeFS) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed++

	return f.closeErr
}

type fakeInfo struct {
	name string
}

func (i fakeInfo) Name() string       { return i.name }
func (i fakeInfo) Size() int64        { return 0 }
func (i fakeInfo) Mode() os.FileMode  { return os.ModeDir | 0o755 }
func (i fakeInfo) ModTime() time.Time { return time.Time{} }
func (i fakeInfo) IsDir() bool        { return true }
func (i fakeInfo) Sys() any           { return nil }

type fakeConnector struct {
	session *fakeFS
	err     error
	opened  []*ssh.Credentials
}

func (c *fakeConnector) Open(_ context.Context, creds *ssh.Credentials) (Session, error) {
	c.opened = append(c.opened, creds)

	if c.err != nil {
		return nil, c.err
	}

	if c.session == nil {
		return nil, errors.New("no session configured")
	}

	return c.session, nil
}
