package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/justgrid/internal/metrics"
	"github.com/matzehuels/justgrid/pkg/buildinfo"
	"github.com/matzehuels/justgrid/pkg/cache"
	"github.com/matzehuels/justgrid/pkg/observability"
	"github.com/matzehuels/justgrid/pkg/pipeline"
	"github.com/matzehuels/justgrid/pkg/render"
)

const galleryBody = `{
	"container_width": 800,
	"max_row_height": 360,
	"spacing": 10,
	"frames": [
		{"id": "a", "width": 1000, "height": 360},
		{"id": "b", "width": 400, "height": 600},
		{"id": "c", "width": 600, "height": 400},
		{"id": "d", "width": 600, "height": 400},
		{"id": "e", "width": 300, "height": 400},
		{"id": "f", "width": 300, "height": 400, "caption": "last"}
	]
}`

func newTestServer(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := pipeline.NewRunner(fc, nil, nil)
	t.Cleanup(func() { runner.Close() })
	return New(runner, opts...).Handler()
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLayout(t *testing.T) {
	h := newTestServer(t)

	rec := do(h, http.MethodPost, "/v1/layout", galleryBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "miss", rec.Header().Get("X-Cache"))

	doc, err := render.ReadDocument(rec.Body)
	require.NoError(t, err)
	require.Len(t, doc.Rows, 3)
	assert.Equal(t, 886, doc.Height)
	assert.True(t, doc.Rows[1].Justified)
	assert.False(t, doc.Rows[2].Justified)
	assert.Equal(t, "last", doc.Rows[2].Frames[1].Caption)

	rec = do(h, http.MethodPost, "/v1/layout", galleryBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hit", rec.Header().Get("X-Cache"))
}

func TestLayoutZeroSpacing(t *testing.T) {
	h := newTestServer(t)
	body := `{"container_width": 100, "max_row_height": 100, "spacing": 0,
		"frames": [{"width": 100, "height": 100}, {"width": 100, "height": 100}, {"width": 100, "height": 100}]}`

	rec := do(h, http.MethodPost, "/v1/layout", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	doc, err := render.ReadDocument(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Spacing)
}

func TestLayoutErrors(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"frames":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", `{"frames":[],"colour":"red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"zero height", `{"frames":[{"width":10,"height":10},{"width":10,"height":0}]}`, http.StatusBadRequest, "INVALID_FRAME"},
		{"extreme aspect ratio", `{"frames":[{"width":1e300,"height":1}]}`, http.StatusBadRequest, "INVALID_FRAME"},
		{"negative spacing", `{"spacing":-1,"frames":[]}`, http.StatusBadRequest, "INVALID_PARAMETERS"},
		{"zero width", `{"container_width":0,"frames":[{"id":"a","width":100,"height":100}]}`, http.StatusBadRequest, "INVALID_PARAMETERS"},
		{"zero max height", `{"max_row_height":0,"frames":[{"id":"a","width":100,"height":100}]}`, http.StatusBadRequest, "INVALID_PARAMETERS"},
		{"bad link", `{"frames":[{"width":1,"height":1,"url":"javascript:x"}]}`, http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/v1/layout", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, rec.Header().Get(RequestIDHeader), body.RequestID)
		})
	}
}

func TestLayoutInvalidFrameMessage(t *testing.T) {
	h := newTestServer(t)
	rec := do(h, http.MethodPost, "/v1/layout", `{"frames":[{"width":10,"height":10},{"width":10,"height":0}]}`)
	body := decodeError(t, rec)
	assert.Contains(t, body.Error.Message, "frame 1")
}

func TestBodyLimit(t *testing.T) {
	h := newTestServer(t, WithMaxBodyBytes(64))
	rec := do(h, http.MethodPost, "/v1/layout", galleryBody)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRender(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"html", "text/html; charset=utf-8", "<!DOCTYPE html>"},
		{"json", "application/json", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/v1/render/"+tt.format, galleryBody)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.True(t, strings.HasPrefix(strings.TrimSpace(rec.Body.String()), tt.prefix),
				"body starts with %.30q", rec.Body.String())
		})
	}
}

func TestRenderDocument(t *testing.T) {
	h := newTestServer(t)

	rec := do(h, http.MethodPost, "/v1/layout", galleryBody)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := rec.Body.String()

	rec = do(h, http.MethodPost, "/v1/render/svg", `{"style":"filled","captions":true,"document":`+doc+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "last")

	rec = do(h, http.MethodPost, "/v1/render/svg", `{"frames":[{"width":1,"height":1}],"document":`+doc+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPost, "/v1/render/svg", `{"document":{"version":99}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderErrors(t *testing.T) {
	h := newTestServer(t)

	rec := do(h, http.MethodPost, "/v1/render/png", galleryBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FORMAT", decodeError(t, rec).Error.Code)

	rec = do(h, http.MethodPost, "/v1/render/svg", `{"style":"neon","frames":[{"width":1,"height":1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STYLE", decodeError(t, rec).Error.Code)
}

func TestHealthAndVersion(t *testing.T) {
	h := newTestServer(t)

	rec := do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var info buildinfo.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, buildinfo.Get().Version, info.Version)
}

func TestRoutingErrors(t *testing.T) {
	h := newTestServer(t)

	rec := do(h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Error.Code)

	rec = do(h, http.MethodGet, "/v1/layout", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t)

	rec := do(h, http.MethodGet, "/healthz", "")
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	defer observability.Reset()
	m := metrics.New(nil)
	m.Register()

	h := newTestServer(t, WithMetrics(m.Handler()))
	do(h, http.MethodPost, "/v1/layout", galleryBody)
	do(h, http.MethodPost, "/v1/layout", `{"frames":[{"width":0,"height":1}]}`)

	rec := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, `justgrid_http_requests_total{method="POST",route="/v1/layout",status="200"} 1`)
	assert.Contains(t, out, `justgrid_http_errors_total{code="INVALID_FRAME",route="/v1/layout"} 1`)
	assert.Contains(t, out, `justgrid_cache_operations_total{kind="layout",result="miss"}`)
}

func TestListenAndServeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(pipeline.NewRunner(nil, nil, nil))

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}

func TestDefaultsApply(t *testing.T) {
	h := newTestServer(t, WithDefaults(pipeline.Options{ContainerWidth: 500, MaxRowHeight: 100, Spacing: 3}))
	rec := do(h, http.MethodPost, "/v1/layout", `{"frames":[{"width":100,"height":100}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var doc render.Document
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&doc))
	assert.Equal(t, 500, doc.ContainerWidth)
	assert.Equal(t, 100, doc.MaxRowHeight)
	assert.Equal(t, 3, doc.Spacing)
}
