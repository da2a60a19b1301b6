package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"flowedit/canvas"
	"flowedit/diagram"
	"flowedit/export"
	"flowedit/geometry"
	"flowedit/importer"
	"flowedit/store"
	"flowedit/validation"
)

// maxBodyBytes caps request bodies at 1 MB.
const maxBodyBytes = 1 << 20

// Handler serves the flowchart held in a repository.
type Handler struct {
	repo     *store.Repository
	registry *importer.Registry
	logger   *zap.Logger

	// mu serializes load-modify-save cycles on the repository.
	mu sync.Mutex
}

// NewHandler creates a handler backed by repo.
func NewHandler(repo *store.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, registry: importer.NewRegistry(), logger: logger}
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetFlowchart handles GET /api/flowchart.
func (h *Handler) GetFlowchart(w http.ResponseWriter, r *http.Request) {
	fc, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

// PutFlowchart handles PUT /api/flowchart. The body is a JSON document
// unless the format query parameter names another importer.
func (h *Handler) PutFlowchart(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	fc, err := h.registry.ImportWithFormat(string(body), format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.repo.Save(r.Context(), fc); err != nil {
		h.logger.Error("saving flowchart", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.logger.Info("flowchart replaced",
		zap.Int("blocks", len(fc.Blocks)),
		zap.Int("connections", len(fc.Connections)))
	writeJSON(w, http.StatusOK, fc)
}

// Export handles GET /api/flowchart/export/{format}.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	exp, err := export.NewExporter(format)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	fc, ok := h.load(w, r)
	if !ok {
		return
	}

	out, err := exp.Export(fc)
	switch {
	case errors.Is(err, export.ErrEmptyFlowchart), errors.Is(err, canvas.ErrTooLarge):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

// validateResponse is the body of GET /api/flowchart/validate.
type validateResponse struct {
	Valid  bool               `json:"valid"`
	Issues []validation.Issue `json:"issues"`
}

// Validate handles GET /api/flowchart/validate.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	fc, ok := h.load(w, r)
	if !ok {
		return
	}
	issues := validation.Validate(fc)
	if issues == nil {
		issues = []validation.Issue{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: !validation.HasErrors(issues), Issues: issues})
}

type connectRequest struct {
	Source *geometry.Shape `json:"source"`
	Target *geometry.Shape `json:"target"`
}

type connectResponse struct {
	From geometry.Point `json:"from"`
	To   geometry.Point `json:"to"`
}

// Connect handles POST /api/geometry/connect.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Source == nil || req.Target == nil {
		writeError(w, http.StatusBadRequest, errors.New("source and target shapes are required"))
		return
	}
	from, to := geometry.Connect(*req.Source, *req.Target)
	writeJSON(w, http.StatusOK, connectResponse{From: from, To: to})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*diagram.Flowchart, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fc, err := h.repo.Load(r.Context())
	if err != nil {
		h.logger.Error("loading flowchart", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return fc, true
}

func contentType(f export.Format) string {
	switch f {
	case export.FormatJSON:
		return "application/json"
	case export.FormatYAML:
		return "application/yaml"
	case export.FormatSVG:
		return "image/svg+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
