package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/matzehuels/weavr/pkg/buildinfo"
	errs "github.com/matzehuels/weavr/pkg/errors"
	"github.com/matzehuels/weavr/pkg/model"
	"github.com/matzehuels/weavr/pkg/observability"
	"github.com/matzehuels/weavr/pkg/pipeline"
	"github.com/matzehuels/weavr/pkg/render/nodelink"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// FixResponse is the body of a successful POST /v1/fix.
type FixResponse struct {
	RunID      string          `json:"runId"`
	Cached     bool            `json:"cached"`
	Normalized int             `json:"normalized"`
	Added      int             `json:"added"`
	Dangling   int             `json:"dangling"`
	Document   json.RawMessage `json:"document"`
}

// AuditResponse is the body of a successful POST /v1/audit.
type AuditResponse struct {
	RunID      string   `json:"runId"`
	Cached     bool     `json:"cached"`
	Clean      bool     `json:"clean"`
	Summary    string   `json:"summary"`
	Violations []string `json:"violations"`
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	body, f, ok := s.readModel(w, r)
	if !ok {
		return
	}

	res, err := s.cfg.Runner.Fix(r.Context(), body, f, pipeline.Options{Layout: s.cfg.Layout})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := model.MarshalDocument(res.Document)
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "encode document"))
		return
	}

	writeJSON(w, http.StatusOK, FixResponse{
		RunID:      res.RunID,
		Cached:     res.CacheInfo.Hit,
		Normalized: res.Transform.Normalized,
		Added:      res.Transform.Added,
		Dangling:   res.Transform.Dangling,
		Document:   doc,
	})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	body, f, ok := s.readModel(w, r)
	if !ok {
		return
	}

	res, err := s.cfg.Runner.Audit(r.Context(), body, f, pipeline.Options{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	lines := res.Report.Lines()
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, AuditResponse{
		RunID:      res.RunID,
		Cached:     res.CacheInfo.Hit,
		Clean:      res.Report.Clean(),
		Summary:    res.Report.Summary(),
		Violations: lines,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	body, f, ok := s.readModel(w, r)
	if !ok {
		return
	}

	res, err := s.cfg.Runner.Fix(r.Context(), body, f, pipeline.Options{Layout: s.cfg.Layout})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := nodelink.Options{Detailed: r.URL.Query().Get("detailed") == "true"}
	out, err := pipeline.Render(r.Context(), res.Document, []string{format}, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch format {
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	default:
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out[format])
}

// readModel reads the request body and picks its format from the
// Content-Type. It writes the error response itself when it returns false.
func (s *Server) readModel(w http.ResponseWriter, r *http.Request) ([]byte, model.Format, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   "REQUEST_TOO_LARGE",
				Details: "request body exceeds the configured limit",
			})
			return nil, "", false
		}
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body"))
		return nil, "", false
	}
	if len(body) == 0 {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "request body is empty"))
		return nil, "", false
	}
	return body, formatOf(r), true
}

// formatOf returns YAML for yaml media types and JSON otherwise.
func formatOf(r *http.Request) model.Format {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && strings.Contains(mt, "yaml") {
		return model.FormatYAML
	}
	return model.FormatJSON
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeFileNotFound, errs.ErrCodeMissingSlices:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeMalformedElement, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errs.ErrCodeUnsupported:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "error", err)
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, ErrorResponse{Error: string(code), Details: errs.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
