package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/walletspy/walletspy/internal/analyzer"
	"github.com/walletspy/walletspy/internal/feed"
	"github.com/walletspy/walletspy/internal/report"
)

// ---------------------------------------------------------------------------
// HTTP API — thin delivery layer over the analyzer. The activity feed itself
// comes from a pluggable FeedSource; fetching chain data is not this
// service's job.
// ---------------------------------------------------------------------------

// FeedSource supplies the raw activity for an address. Implementations wrap
// the external blockchain-data collaborator.
type FeedSource interface {
	Fetch(ctx context.Context, address string) ([]feed.RawActivityRecord, []feed.RawHolding, error)
}

// Config tunes the HTTP layer.
type Config struct {
	Addr         string
	CacheTTL     time.Duration
	RateLimitRPS float64
	RateBurst    int
}

// Server serves wallet analyses over HTTP.
type Server struct {
	config   Config
	analyzer *analyzer.Analyzer
	source   FeedSource
	cache    *cache.Cache
	limiter  *rate.Limiter
	router   chi.Router
}

// New creates the server.
func New(config Config, a *analyzer.Analyzer, source FeedSource) *Server {
	s := &Server{
		config:   config,
		analyzer: a,
		source:   source,
		cache:    cache.New(config.CacheTTL, 2*config.CacheTTL),
		limiter:  rate.NewLimiter(rate.Limit(config.RateLimitRPS), config.RateBurst),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.rateLimit)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/analyze/{address}", s.handleAnalyze)
		r.Get("/compare/{addressA}/{addressB}", s.handleCompare)
	})
	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, shutdownGrace time.Duration) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.config.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	if cached, ok := s.cache.Get(address); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	wa, err := s.analyze(r.Context(), address)
	if err != nil {
		writeError(w, err)
		return
	}

	s.cache.SetDefault(address, wa)
	writeJSON(w, http.StatusOK, wa)
}

// handleCompare runs two independent analyses concurrently and diffs the
// resulting immutable reports. No cross-wallet shared state exists.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	addrA := chi.URLParam(r, "addressA")
	addrB := chi.URLParam(r, "addressB")

	var (
		wg   sync.WaitGroup
		wa   [2]*report.WalletAnalysis
		errs [2]error
	)
	for i, addr := range []string{addrA, addrB} {
		wg.Add(1)
		go func(i int, addr string) {
			defer wg.Done()
			wa[i], errs[i] = s.analyze(r.Context(), addr)
		}(i, addr)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, report.Compare(wa[0], wa[1]))
}

func (s *Server) analyze(ctx context.Context, address string) (*report.WalletAnalysis, error) {
	if cached, ok := s.cache.Get(address); ok {
		if wa, isReport := cached.(*report.WalletAnalysis); isReport {
			return wa, nil
		}
	}

	raw, holdings, err := s.source.Fetch(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("feed source: %w", err)
	}
	wa, err := s.analyzer.Analyze(ctx, address, raw, holdings)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(address, wa)
	return wa, nil
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			log.Warn().Str("path", r.URL.Path).Msg("rate limit exceeded")
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, analyzer.ErrInvalidInput) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
