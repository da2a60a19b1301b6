package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowedit/config"
	"flowedit/diagram"
	"flowedit/store"
)

func newTestRouter(t *testing.T) (http.Handler, *store.Repository) {
	t.Helper()
	repo := store.NewRepository(store.NewMemoryStore())
	return NewRouter(NewHandler(repo, nil), nil), repo
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, r))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestRoutesRegistered(t *testing.T) {
	router, _ := newTestRouter(t)
	mux, ok := router.(*chi.Mux)
	require.True(t, ok)

	registered := map[string]bool{}
	err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	for _, want := range []string{
		"GET /healthz",
		"GET /api/flowchart",
		"PUT /api/flowchart",
		"GET /api/flowchart/export/{format}",
		"GET /api/flowchart/validate",
		"POST /api/geometry/connect",
	} {
		assert.True(t, registered[want], "route %s not registered", want)
	}
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestGetEmptyFlowchart(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/api/flowchart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	fc := decode[diagram.Flowchart](t, rec)
	assert.Empty(t, fc.Blocks)
	assert.Equal(t, 1, fc.NextID)
}

const sampleDoc = `{
  "blocks": [
    {"id": "block-1", "type": "start", "text": "Start", "position": {"x": 0, "y": 0}, "width": 120, "height": 50},
    {"id": "block-2", "type": "end", "text": "End", "position": {"x": 0, "y": 200}, "width": 120, "height": 50}
  ],
  "connections": [{"from": "block-1", "to": "block-2"}]
}`

func TestPutFlowchart(t *testing.T) {
	router, repo := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/api/flowchart", sampleDoc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[diagram.Flowchart](t, rec)
	assert.Equal(t, 3, got.NextID)
	require.Len(t, got.Connections, 1)
	assert.Equal(t, "conn-block-1-block-2", got.Connections[0].ID)
	// Rerouted onto the block outlines.
	assert.Equal(t, diagram.Position{X: 60, Y: 50}, got.Connections[0].FromPosition)
	assert.Equal(t, diagram.Position{X: 60, Y: 200}, got.Connections[0].ToPosition)

	stored, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored.Blocks, 2)
}

func TestPutFlowchartMermaid(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := do(t, router, http.MethodPut, "/api/flowchart?format=mermaid", "flowchart TD\n    A[Go] --> B[Stop]\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[diagram.Flowchart](t, rec)
	assert.Len(t, got.Blocks, 2)
	assert.Len(t, got.Connections, 1)
}

func TestPutFlowchartRejectsInvalid(t *testing.T) {
	router, _ := newTestRouter(t)
	for _, body := range []string{`{}`, `{"blocks": [`, `[]`} {
		rec := do(t, router, http.MethodPut, "/api/flowchart", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
	}
}

func TestExport(t *testing.T) {
	router, _ := newTestRouter(t)
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPut, "/api/flowchart", sampleDoc).Code)

	rec := do(t, router, http.MethodGet, "/api/flowchart/export/mermaid", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "flowchart TD")
	assert.Contains(t, rec.Body.String(), `block_1(["Start"])`)
	assert.Contains(t, rec.Body.String(), "block_1 --> block_2")

	rec = do(t, router, http.MethodGet, "/api/flowchart/export/svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))

	rec = do(t, router, http.MethodGet, "/api/flowchart/export/dot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "digraph G {")
}

func TestExportErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/flowchart/export/plantuml", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/flowchart/export/mermaid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The native document is fine when empty.
	rec = do(t, router, http.MethodGet, "/api/flowchart/export/json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExportRejectsOversizedCanvas(t *testing.T) {
	router, repo := newTestRouter(t)
	fc := diagram.New()
	_, err := fc.AddBlock(diagram.BlockProcess, diagram.At(diagram.Position{X: 0, Y: 0}))
	require.NoError(t, err)
	_, err = fc.AddBlock(diagram.BlockProcess, diagram.At(diagram.Position{X: 2e6, Y: 4e5}))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), fc))

	rec := do(t, router, http.MethodGet, "/api/flowchart/export/ascii", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "too large")

	// Text formats do not allocate a grid.
	rec = do(t, router, http.MethodGet, "/api/flowchart/export/mermaid", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidate(t *testing.T) {
	router, repo := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/flowchart/validate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid": true, "issues": []}`, rec.Body.String())

	fc := diagram.New()
	a, err := fc.AddBlock(diagram.BlockProcess)
	require.NoError(t, err)
	fc.Connections = append(fc.Connections, diagram.Connection{
		ID: diagram.ConnectionID(a.ID, "block-9"), From: a.ID, To: "block-9",
	})
	require.NoError(t, repo.Save(context.Background(), fc))

	rec = do(t, router, http.MethodGet, "/api/flowchart/validate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Valid  bool `json:"valid"`
		Issues []struct {
			Severity string `json:"severity"`
			Code     string `json:"code"`
		} `json:"issues"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Valid)
	require.NotEmpty(t, resp.Issues)
	assert.Equal(t, "error", resp.Issues[0].Severity)
	assert.Equal(t, "dangling-endpoint", resp.Issues[0].Code)
}

func TestConnect(t *testing.T) {
	router, _ := newTestRouter(t)
	body := `{
	  "source": {"kind": "rectangle", "center": {"x": 0, "y": 0}, "halfWidth": 50, "halfHeight": 25},
	  "target": {"kind": "rectangle", "center": {"x": 200, "y": 0}, "halfWidth": 50, "halfHeight": 25}
	}`
	rec := do(t, router, http.MethodPost, "/api/geometry/connect", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"from": {"x": 50, "y": 0}, "to": {"x": 150, "y": 0}}`, rec.Body.String())
}

func TestConnectRejectsBadInput(t *testing.T) {
	router, _ := newTestRouter(t)
	for _, body := range []string{
		`not json`,
		`{"source": {"kind": "rectangle", "halfWidth": 1, "halfHeight": 1}}`,
		`{"source": {"kind": "hexagon"}, "target": {"kind": "diamond"}}`,
	} {
		rec := do(t, router, http.MethodPost, "/api/geometry/connect", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestServerShutsDownOnCancel(t *testing.T) {
	router, _ := newTestRouter(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(config.ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second}, router, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
