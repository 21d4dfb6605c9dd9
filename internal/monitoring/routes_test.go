package monitoring

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, writer *fakeWriter) (http.Handler, *Service) {
	svc := newTestService(t, writer)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, svc)
	})

	return r, svc
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func statusOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body["status"]
}

func TestRoutes_TargetLifecycle(t *testing.T) {
	h, _ := newTestRouter(t, &fakeWriter{})

	rec := do(t, h, http.MethodPost, "/api/target", "application/x-www-form-urlencoded", "host=example.com")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/target/1", rec.Header().Get("Location"))
	assert.Equal(t, "1", rec.Header().Get("target_id"))

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "http://example.com", created["url"])

	rec = do(t, h, http.MethodGet, "/api/target/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"host":"example.com"`)

	rec = do(t, h, http.MethodGet, "/api/target", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Contains(t, listed, "1")

	rec = do(t, h, http.MethodDelete, "/api/target/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Target deleted", statusOf(t, rec))

	rec = do(t, h, http.MethodGet, "/api/target/1", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/target/1", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed to delete", statusOf(t, rec))
}

func TestRoutes_TargetRequiresHostOrIP(t *testing.T) {
	h, _ := newTestRouter(t, &fakeWriter{})

	rec := do(t, h, http.MethodPost, "/api/target", "application/json", `{"url":"http://example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "host or ip fields missing", statusOf(t, rec))
}

func TestRoutes_WorkerWithMonSelf(t *testing.T) {
	h, svc := newTestRouter(t, &fakeWriter{})

	rec := do(t, h, http.MethodPost, "/api/worker", "application/json", `{"ip":"10.0.0.5","location":"fra","mon_self":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("worker_id"))

	worker, err := svc.Repository().GetWorker(1)
	require.NoError(t, err)
	require.NotNil(t, worker.MonTarget)

	rec = do(t, h, http.MethodDelete, "/api/worker/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Worker deleted", statusOf(t, rec))

	_, err = svc.Repository().GetTarget(*worker.MonTarget)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestRoutes_WorkerRequiresLocation(t *testing.T) {
	h, _ := newTestRouter(t, &fakeWriter{})

	rec := do(t, h, http.MethodPost, "/api/worker", "application/x-www-form-urlencoded", "ip=10.0.0.5")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoutes_Ingest(t *testing.T) {
	tests := []struct {
		name       string
		writerErr  error
		body       string
		wantCode   int
		wantStatus string
	}{
		{name: "inserted", body: `{"data":"ping,host=a rtt=1.2"}`, wantCode: http.StatusCreated, wantStatus: "Data Inserted"},
		{name: "tsdb failure", writerErr: errors.New("unauthorized"), body: `{"data":"ping rtt=1"}`, wantCode: http.StatusUnauthorized, wantStatus: "TSDB Error"},
		{name: "malformed body", body: `{"data":`, wantCode: http.StatusBadRequest, wantStatus: "Internal Error"},
		{name: "missing data", body: `{}`, wantCode: http.StatusBadRequest, wantStatus: "Internal Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := &fakeWriter{err: tt.writerErr}
			h, _ := newTestRouter(t, writer)

			rec := do(t, h, http.MethodPost, "/api/monitoring", "application/json", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, statusOf(t, rec))
		})
	}
}
