package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/incidents/internal/coverage"
	"github.com/ppiankov/incidents/internal/filter"
	"github.com/ppiankov/incidents/internal/index"
	"github.com/ppiankov/incidents/internal/model"
	"github.com/ppiankov/incidents/internal/sample"
	"github.com/ppiankov/incidents/internal/worker"
)

// Server exposes coverage, draws and detail records over HTTP
type Server struct {
	idx     *index.Index
	sampler *sample.Sampler
	fetcher worker.Fetcher
	policy  filter.Policy
	logger  *slog.Logger
}

// New creates a server. policy applies when a request names no tier.
func New(idx *index.Index, sampler *sample.Sampler, fetcher worker.Fetcher, policy filter.Policy, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		idx:     idx,
		sampler: sampler,
		fetcher: fetcher,
		policy:  policy,
		logger:  logger,
	}
}

// Handler returns the routed handler wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/groups", s.handleGroups)
	mux.HandleFunc("GET /api/draw", s.handleDraw)
	mux.HandleFunc("GET /api/incidents/{id}", s.handleIncident)

	return Chain(mux, Logger(s.logger))
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, cfg model.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type statsResponse struct {
	coverage.Coverage
	Percent int      `json:"percent"`
	Races   []string `json:"races"`
	Armed   []string `json:"armed"`
	Text    string   `json:"text"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cov := coverage.Calculate(s.idx, sel)
	resp := statsResponse{
		Coverage: cov,
		Percent:  cov.Percent(),
		Races:    names(sel.Races()),
		Armed:    names(sel.Armed()),
		Text:     cov.String(),
	}
	writeJSON(w, http.StatusOK, resp)
}

type groupResponse struct {
	Race      model.Race  `json:"race"`
	Armed     model.Armed `json:"armed"`
	N         int         `json:"n"`
	Full      int         `json:"full"`
	Deficient int         `json:"deficient"`
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	groups := s.idx.GroupsMatching(sel)
	out := make([]groupResponse, len(groups))
	for i, g := range groups {
		out[i] = groupResponse{
			Race:      g.Race,
			Armed:     g.Armed,
			N:         g.N,
			Full:      len(g.FullIDs),
			Deficient: len(g.DeficientIDs),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDraw redirects to a drawn record, or answers 204 when the draw finds nothing
func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	policy := s.policy
	if tier := r.URL.Query().Get("tier"); tier != "" {
		if policy, err = filter.ParsePolicy(tier); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	id, ok, err := s.sampler.Draw(sel, policy)
	if err != nil {
		s.logger.Error("draw failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Redirect(w, r, "/api/incidents/"+strconv.Itoa(id), http.StatusSeeOther)
}

type incidentResponse struct {
	model.Incident
	Category *categoryResponse `json:"category,omitempty"`
}

type categoryResponse struct {
	Race  model.Race  `json:"race"`
	Armed model.Armed `json:"armed"`
	Tier  model.Tier  `json:"tier"`
}

func (s *Server) handleIncident(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, errors.New("id must be a non-negative integer"))
		return
	}

	resp := incidentResponse{Incident: s.fetcher.Fetch(r.Context(), id)}
	if loc, ok := s.idx.Lookup(id); ok && !resp.Fallback {
		resp.Category = &categoryResponse{Race: loc.Race, Armed: loc.Armed, Tier: loc.Tier}
	}
	writeJSON(w, http.StatusOK, resp)
}

// selectionFromQuery reads repeatable race and armed parameters; an absent parameter enables all
func selectionFromQuery(r *http.Request) (filter.Selection, error) {
	q := r.URL.Query()
	return filter.Parse(q["race"], q["armed"])
}

func names[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
