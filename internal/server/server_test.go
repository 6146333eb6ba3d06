package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spdash/spdash/internal/cache"
	"github.com/spdash/spdash/internal/config"
	"github.com/spdash/spdash/internal/logger"
	"github.com/spdash/spdash/internal/normalizer"
	"github.com/spdash/spdash/internal/source"
	"github.com/spdash/spdash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, location string, opts ...testutil.ConfigOption) *Server {
	t.Helper()
	cfg := testutil.NewTestConfig(t, append([]testutil.ConfigOption{testutil.WithSource(location)}, opts...)...)
	n := normalizer.New(source.New())
	return New(cache.New(n), cfg, logger.Discard())
}

func get(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, "unused.csv")
	rec, body := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestGetDataset(t *testing.T) {
	s := newTestServer(t, testutil.WriteCSV(t, testutil.SampleCSV))

	rec, body := get(t, s, "/api/dataset")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(testutil.SampleRows), body["rows"])

	status := body["status"].(map[string]any)
	assert.Equal(t, true, status["ok"])
	assert.Equal(t, float64(2), status["dropped"])

	orderings := body["orderings"].(map[string]any)
	assert.Contains(t, orderings, "Attendance")
	assert.Contains(t, orderings, "Preparation")
	assert.Contains(t, orderings, "Gaming")
}

func TestGetDatasetUnavailable(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "missing.csv"))

	rec, body := get(t, s, "/api/dataset")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	status := body["status"].(map[string]any)
	assert.Equal(t, "unreachable", status["reason"])

	rec, body = get(t, s, "/api/objectives/1")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "cannot render: dataset is empty", body["error"])
}

func TestGetObjective(t *testing.T) {
	s := newTestServer(t, testutil.WriteCSV(t, testutil.SampleCSV))

	rec, body := get(t, s, "/api/objectives/3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Temporal and Habit Interaction", body["title"])
	assert.Len(t, body["charts"], 3)

	rec, _ = get(t, s, "/api/objectives/7")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetObjectiveFillsUnobserved(t *testing.T) {
	s := newTestServer(t, testutil.WriteCSV(t, testutil.SampleCSV), testutil.WithUnobserved(config.UnobservedBlank))

	_, body := get(t, s, "/api/objectives/2")
	charts := body["charts"].([]any)
	bar := charts[1].(map[string]any)
	require.Equal(t, "overall_by_department_gender", bar["id"])
	rows := bar["table"].(map[string]any)["rows"].([]any)
	assert.Len(t, rows, 6)
}

func TestGetAggregate(t *testing.T) {
	s := newTestServer(t, testutil.WriteCSV(t, testutil.SampleCSV))

	rec, body := get(t, s, "/api/aggregate?by=Attendance&value=Overall&reducer=count")
	require.Equal(t, http.StatusOK, rec.Code, body)

	rows := body["rows"].([]any)
	require.Len(t, rows, 4)
	first := rows[0].(map[string]any)
	assert.Equal(t, []any{"Below 40%"}, first["keys"])
	assert.Equal(t, float64(1), first["value"])

	rec, body = get(t, s, "/api/aggregate?by=Department&by=Gender&value=Overall&sort=value_desc")
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, "mean", body["reducer"])
}

func TestGetAggregateErrors(t *testing.T) {
	s := newTestServer(t, testutil.WriteCSV(t, testutil.SampleCSV))

	tests := []struct {
		path string
		code int
	}{
		{"/api/aggregate?by=Gender&value=Overall&reducer=mode", http.StatusBadRequest},
		{"/api/aggregate?by=Gender&value=Overall&sort=random", http.StatusBadRequest},
		{"/api/aggregate?value=Overall", http.StatusBadRequest},
		{"/api/aggregate?by=Nope&value=Overall", http.StatusBadRequest},
		{"/api/aggregate?by=Gender&value=Department", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec, body := get(t, s, tt.path)
		assert.Equal(t, tt.code, rec.Code, tt.path)
		assert.NotEmpty(t, body["error"], tt.path)
	}
}

func TestInvalidateReloads(t *testing.T) {
	var hits atomic.Int32
	counting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(testutil.SampleCSV))
	}))
	defer counting.Close()

	s := newTestServer(t, counting.URL)
	get(t, s, "/api/dataset")
	get(t, s, "/api/dataset")
	assert.Equal(t, int32(1), hits.Load())

	req := httptest.NewRequest(http.MethodPost, "/api/cache/invalidate", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	get(t, s, "/api/dataset")
	assert.Equal(t, int32(2), hits.Load())
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t, "unused.csv")
	s.cfg.Dashboard.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHTTPServerErrorLog(t *testing.T) {
	var buf bytes.Buffer
	cfg := testutil.NewTestConfig(t, testutil.WithSource("unused.csv"))
	s := New(cache.New(normalizer.New(source.New())), cfg, logger.NewWithWriter(&buf, "info"))

	srv := s.httpServer()
	require.NotNil(t, srv.ErrorLog)
	srv.ErrorLog.Print("http: TLS handshake error from 127.0.0.1")

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "TLS handshake error")
}
