package tsdb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedWrite struct {
	path   string
	org    string
	bucket string
	auth   string
	body   string
}

type influxStub struct {
	mu     sync.Mutex
	writes []capturedWrite
}

func (s *influxStub) captured() []capturedWrite {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]capturedWrite{}, s.writes...)
}

func newInfluxStub(t *testing.T, status int) (*httptest.Server, *influxStub) {
	t.Helper()

	stub := &influxStub{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		stub.mu.Lock()
		stub.writes = append(stub.writes, capturedWrite{
			path:   r.URL.Path,
			org:    r.URL.Query().Get("org"),
			bucket: r.URL.Query().Get("bucket"),
			auth:   r.Header.Get("Authorization"),
			body:   string(body),
		})
		stub.mu.Unlock()

		if status >= 400 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"code":"unauthorized","message":"unauthorized access"}`))
			return
		}

		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	return srv, stub
}

func TestInfluxWriter_Write(t *testing.T) {
	srv, stub := newInfluxStub(t, http.StatusNoContent)

	writer := NewInfluxWriter(srv.URL, "secret-token", "certifire", "monitoring")
	defer writer.Close()

	data := "latency,worker=w1,target=example.com value=42i 1700000000000000000"
	require.NoError(t, writer.Write(context.Background(), data))

	writes := stub.captured()
	require.Len(t, writes, 1)
	got := writes[0]
	assert.Equal(t, "/api/v2/write", got.path)
	assert.Equal(t, "certifire", got.org)
	assert.Equal(t, "monitoring", got.bucket)
	assert.Equal(t, "Token secret-token", got.auth)
	assert.Equal(t, data, strings.TrimSpace(got.body))
}

func TestInfluxWriter_ServerError(t *testing.T) {
	srv, _ := newInfluxStub(t, http.StatusUnauthorized)

	writer := NewInfluxWriter(srv.URL, "wrong", "certifire", "monitoring")
	defer writer.Close()

	err := writer.Write(context.Background(), "latency value=1")
	assert.ErrorIs(t, err, ErrWrite)
}

func TestInfluxWriter_EmptyData(t *testing.T) {
	srv, stub := newInfluxStub(t, http.StatusNoContent)

	writer := NewInfluxWriter(srv.URL, "token", "certifire", "monitoring")
	defer writer.Close()

	assert.ErrorIs(t, writer.Write(context.Background(), "  \n"), ErrEmptyData)
	assert.Empty(t, stub.captured())
}
