package request

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireID(t *testing.T) {
	id, err := RequireID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = RequireID("")
	assert.ErrorContains(t, err, "missing required ID")

	_, err = RequireID("abc")
	assert.ErrorContains(t, err, "invalid ID")

	_, err = RequireID("0")
	assert.Error(t, err)
}

func TestDecode_Destination(t *testing.T) {
	body := `{"host":"web1.example.com","password":"pw","export_format":"Apache"}`
	r, err := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	require.NoError(t, err)

	var payload CreateDestinationRequest
	require.NoError(t, Decode(r, &payload))
	assert.Equal(t, "web1.example.com", payload.Host)
	assert.Equal(t, "Apache", payload.ExportFormat)
}

func TestDecode_InvalidJSON(t *testing.T) {
	r, err := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{not valid json}`))
	require.NoError(t, err)

	var payload CreateDestinationRequest
	err = Decode(r, &payload)
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestDecode_ValidationFails(t *testing.T) {
	r, err := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"port":22}`))
	require.NoError(t, err)

	var payload CreateDestinationRequest
	err = Decode(r, &payload)
	assert.ErrorContains(t, err, "validation error")
}

func TestDecodeFormOrJSON_Form(t *testing.T) {
	form := "ip=10.0.0.5&location=fra&mon_self=true&create_host=on"
	r, err := http.NewRequest(http.MethodPost, "/api/worker", strings.NewReader(form))
	require.NoError(t, err)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var payload CreateWorkerRequest
	require.NoError(t, DecodeFormOrJSON(r, &payload))
	assert.Equal(t, "10.0.0.5", payload.IP)
	assert.Equal(t, "fra", payload.Location)
	assert.True(t, payload.MonSelf)
	assert.True(t, payload.CreateHost)
}

func TestDecodeFormOrJSON_Multipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("host", "worker.example.com"))
	require.NoError(t, mw.WriteField("location", "ams"))
	require.NoError(t, mw.WriteField("mon_self", "on"))
	require.NoError(t, mw.WriteField("bw_url", "worker.example.com/bw"))
	require.NoError(t, mw.Close())

	r, err := http.NewRequest(http.MethodPost, "/api/worker", &body)
	require.NoError(t, err)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	var payload CreateWorkerRequest
	require.NoError(t, DecodeFormOrJSON(r, &payload))
	assert.Equal(t, "worker.example.com", payload.Host)
	assert.Equal(t, "ams", payload.Location)
	assert.True(t, payload.MonSelf)
	assert.Equal(t, "worker.example.com/bw", payload.BwURL)
}

func TestDecodeFormOrJSON_FreeTextURLs(t *testing.T) {
	form := "host=example.com&url=example.com%2Fstatus&bw_url=example.com%2Fbw"
	r, err := http.NewRequest(http.MethodPost, "/api/target", strings.NewReader(form))
	require.NoError(t, err)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var payload CreateTargetRequest
	require.NoError(t, DecodeFormOrJSON(r, &payload))
	assert.Equal(t, "example.com/status", payload.URL)
	assert.Equal(t, "example.com/bw", payload.BwURL)
}

func TestDecodeFormOrJSON_JSON(t *testing.T) {
	r, err := http.NewRequest(http.MethodPost, "/api/target", strings.NewReader(`{"host":"example.com"}`))
	require.NoError(t, err)

	var payload CreateTargetRequest
	require.NoError(t, DecodeFormOrJSON(r, &payload))
	assert.Equal(t, "example.com", payload.Host)
}

func TestDecodeFormOrJSON_HostOrIPRequired(t *testing.T) {
	r, err := http.NewRequest(http.MethodPost, "/api/target", strings.NewReader("url=http%3A%2F%2Fexample.com"))
	require.NoError(t, err)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var payload CreateTargetRequest
	assert.ErrorContains(t, DecodeFormOrJSON(r, &payload), "validation error")
}

func TestDecodeFormOrJSON_BadBool(t *testing.T) {
	r, err := http.NewRequest(http.MethodPost, "/api/worker", strings.NewReader("ip=10.0.0.5&location=fra&mon_self=maybe"))
	require.NoError(t, err)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var payload CreateWorkerRequest
	assert.ErrorContains(t, DecodeFormOrJSON(r, &payload), "mon_self")
}
