package autopsyd

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/GoSim-25-26J-441/system-autopsy/internal/simulation"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/logger"
)

const maxBodyBytes = 1 << 16

// HTTPOptions configures the HTTP API.
type HTTPOptions struct {
	AllowedOrigins []string
	ExplainLimiter *rate.Limiter
	Logger         *slog.Logger
}

type HTTPServer struct {
	mux     *http.ServeMux
	service *Service
	opts    HTTPOptions
}

func NewHTTPServer(service *Service, opts HTTPOptions) *HTTPServer {
	if opts.Logger == nil {
		opts.Logger = logger.Default
	}
	s := &HTTPServer{
		mux:     http.NewServeMux(),
		service: service,
		opts:    opts,
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/v1/scenarios", s.handleScenarios)
	s.mux.HandleFunc("/v1/simulate", s.handleSimulate)
	s.mux.HandleFunc("/v1/inject-failure", s.handleInjectFailure)
	s.mux.Handle("/v1/explain", RateLimitMiddleware(opts.ExplainLimiter)(http.HandlerFunc(s.handleExplain)))

	return s
}

// Handler returns the mux wrapped in the standard middleware stack.
func (s *HTTPServer) Handler() http.Handler {
	return Chain(s.mux,
		RequestIDMiddleware(s.opts.Logger),
		RecoveryMiddleware,
		LoggingMiddleware,
		CORSMiddleware(s.opts.AllowedOrigins),
	)
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleScenarios handles GET /v1/scenarios
func (s *HTTPServer) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	details := make([]map[string]any, 0)
	for _, sc := range s.service.Scenarios() {
		details = append(details, map[string]any{
			"id":          sc.ID,
			"title":       sc.Title,
			"description": sc.Description,
			"target":      sc.Target,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"scenarios": s.service.ScenarioIDs(),
		"details":   details,
	})
}

// handleSimulate handles POST /v1/simulate. An empty body runs a baseline.
func (s *HTTPServer) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req simulation.Request
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	state, err := s.service.Simulate(r.Context(), req)
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleInjectFailure handles POST /v1/inject-failure
func (s *HTTPServer) handleInjectFailure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req simulation.Request
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	state, err := s.service.InjectFailure(r.Context(), req)
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleExplain handles POST /v1/explain
func (s *HTTPServer) handleExplain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Scenario string `json:"scenario"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	resp, err := s.service.Explain(r.Context(), req.Scenario)
	if err != nil {
		s.writeRunError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	if isClientError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logger.FromContext(r.Context()).Error("simulation failed", "error", err)
	writeError(w, http.StatusInternalServerError, "simulation failed")
}

// decodeBody decodes a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": message,
	})
}
