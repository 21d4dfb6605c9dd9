package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "absolute", path: "/var/www/html", want: []string{"/", "/var", "/var/www", "/var/www/html"}},
		{name: "trailing slash", path: "/etc/nginx/certs/", want: []string{"/", "/etc", "/etc/nginx", "/etc/nginx/certs"}},
		{name: "double slashes", path: "/etc//nginx", want: []string{"/", "/etc", "/etc/nginx"}},
		{name: "root", path: "/", want: []string{"/"}},
		{name: "relative", path: "certs/example.com", want: []string{"certs", "certs/example.com"}},
		{name: "empty", path: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPath(tt.path))
		})
	}
}

func TestEnsurePath_ProbesEverySegmentOnce(t *testing.T) {
	fs := newFakeFS("/", "/var")

	err := EnsurePath(context.Background(), fs, "/var/www/html")
	require.NoError(t, err)

	stats := fs.ops("stat")
	require.Len(t, stats, len(SplitPath("/var/www/html")))
	assert.Equal(t, "/", stats[0].Path)
	assert.Equal(t, "/var/www/html", stats[3].Path)

	mkdirs := fs.ops("mkdir")
	require.Len(t, mkdirs, 2)
	assert.Equal(t, "/var/www", mkdirs[0].Path)
	assert.Equal(t, "/var/www/html", mkdirs[1].Path)
}

func TestEnsurePath_ExistingPathCreatesNothing(t *testing.T) {
	fs := newFakeFS("/", "/etc", "/etc/nginx")

	require.NoError(t, EnsurePath(context.Background(), fs, "/etc/nginx"))
	assert.Empty(t, fs.ops("mkdir"))
}

func TestEnsurePath_ContinuesAfterFailedSegment(t *testing.T) {
	fs := newFakeFS("/")
	fs.mkdirErrs["/srv"] = errPermission
	fs.mkdirErrs["/srv/certs"] = errors.New("no such file")

	err := EnsurePath(context.Background(), fs, "/srv/certs/example.com")

	require.Error(t, err)
	assert.Len(t, fs.ops("mkdir"), 3)

	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "/srv", pathErr.Path)
	assert.Contains(t, err.Error(), "/srv/certs")
	assert.NotContains(t, err.Error(), "/srv/certs/example.com")
}

func TestEnsurePath_StopsOnCancelledContext(t *testing.T) {
	fs := newFakeFS()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := EnsurePath(ctx, fs, "/var/www")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fs.ops("stat"))
}
