package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"stickcheck/internal/analyze"
)

// Runner is the analysis pipeline behind the endpoint.
type Runner interface {
	Run(ctx context.Context, req analyze.Request) analyze.Response
}

// analyzeBody is the inbound JSON shape. Threshold is a pointer so an absent
// field is distinguishable from an explicit zero.
type analyzeBody struct {
	Usernames []string `json:"usernames"`
	Threshold *int     `json:"threshold"`
}

// Server exposes the analysis pipeline over HTTP.
type Server struct {
	runner     Runner
	httpServer *http.Server

	// credentialed is false when no model-access credential was configured
	// at startup; requests then fail with a server misconfiguration error.
	credentialed bool
}

func New(addr string, runner Runner, credentialed bool) *Server {
	s := &Server{
		runner:       runner,
		credentialed: credentialed,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/healthz", s.handleHealthz)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, analyze.Response{
			Results: []analyze.AnalysisRecord{},
			Errors:  []string{"method not allowed"},
		})
		return
	}

	// A panic anywhere in the pipeline must not take the process down; the
	// client still gets the regular response shape.
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Any("panic", rec).Msg("analyze handler panicked")
			writeJSON(w, http.StatusInternalServerError, analyze.Response{
				Results: []analyze.AnalysisRecord{},
				Errors:  []string{"Server error: unexpected failure during analysis"},
			})
		}
	}()

	var body analyzeBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, analyze.Response{
			Results: []analyze.AnalysisRecord{},
			Errors:  []string{"invalid JSON body"},
		})
		return
	}

	if !hasUsableUsername(body.Usernames) {
		writeJSON(w, http.StatusBadRequest, analyze.Response{
			Results: []analyze.AnalysisRecord{},
			Errors:  []string{"Please provide at least one username"},
		})
		return
	}

	if !s.credentialed {
		writeJSON(w, http.StatusInternalServerError, analyze.Response{
			Results: []analyze.AnalysisRecord{},
			Errors:  []string{"Vision model API key not configured"},
		})
		return
	}

	req := analyze.Request{
		Usernames: body.Usernames,
		Threshold: analyze.DefaultThreshold,
	}
	if body.Threshold != nil {
		req.Threshold = *body.Threshold
	}

	log.Info().Strs("usernames", req.Usernames).Int("threshold", req.Threshold).Msg("analysis requested")
	resp := s.runner.Run(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}

// hasUsableUsername reports whether at least one username survives trimming.
func hasUsableUsername(usernames []string) bool {
	for _, u := range usernames {
		if strings.TrimSpace(u) != "" {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
