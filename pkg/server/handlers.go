package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raonyguimaraes/skater/pkg/dataset"
	"github.com/raonyguimaraes/skater/pkg/errors"
	"github.com/raonyguimaraes/skater/pkg/interpret"
	"github.com/raonyguimaraes/skater/pkg/model"
	"github.com/raonyguimaraes/skater/pkg/render/chart"
	"github.com/raonyguimaraes/skater/pkg/store"
)

// ExplainRequest is the body of POST /v1/explain.
type ExplainRequest struct {
	// Features names the dataset columns, in row order.
	Features []string `json:"features"`

	// Rows holds the evaluation dataset, one slice per observation.
	Rows [][]float64 `json:"rows"`

	// ModelURL is the prediction endpoint of the deployed model.
	ModelURL string `json:"model_url"`

	// Targets names the model's output columns.
	Targets []string `json:"targets"`

	FilterClasses []string `json:"filter_classes,omitempty"`
	Seed          uint64   `json:"seed,omitempty"`

	// Label is an optional human-readable dataset name stored with the result.
	Label string `json:"label,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	ds, err := dataset.New(req.Rows, req.Features)
	if err != nil {
		s.writeError(w, err)
		return
	}

	m, err := model.NewDeployedModel(req.ModelURL, req.Targets)
	if err != nil {
		s.writeError(w, err)
		return
	}

	scores, err := interpret.FeatureImportance(r.Context(), ds, m, interpret.Options{
		FilterClasses: req.FilterClasses,
		Seed:          req.Seed,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	label := req.Label
	if label == "" {
		label = "api"
	}
	rec := store.New(label, scores, s.cfg.TTL)
	rec.ModelURL = req.ModelURL
	rec.FilterClasses = req.FilterClasses
	rec.Seed = req.Seed
	if rec.Seed == 0 {
		rec.Seed = interpret.DefaultSeed
	}

	if err := s.store.Set(r.Context(), rec); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "persist explanation"))
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetExplanation(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = chart.FormatSVG
	}
	if err := chart.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}

	data, err := chart.Render(rec.Scores, format, chart.WithTitle(rec.Dataset))
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteExplanation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "delete explanation"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookup fetches the explanation named in the URL, writing the error
// response itself when the record is missing or the store fails.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*store.Explanation, bool) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "fetch explanation"))
		return nil, false
	}
	if rec == nil {
		s.writeError(w, errors.New(errors.ErrCodeExplanationNotFound, "explanation %q not found", id))
		return nil, false
	}
	return rec, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)

	var resp errorResponse
	resp.Error.Code = string(code)
	resp.Error.Message = errors.UserMessage(err)

	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, resp)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidClass, errors.ErrCodeInvalidDataset,
		errors.ErrCodeInvalidFormat, errors.ErrCodeUnknownFeature, errors.ErrCodeShapeMismatch:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeExplanationNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func contentType(format string) string {
	switch format {
	case chart.FormatSVG:
		return "image/svg+xml"
	case chart.FormatPNG:
		return "image/png"
	case chart.FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StartCleanup launches a background loop that purges expired records at
// the given interval until ctx is canceled.
func (s *Server) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.store.Cleanup(ctx); err != nil {
					s.logger.Warn("store cleanup failed", "err", err)
				}
			}
		}
	}()
}
