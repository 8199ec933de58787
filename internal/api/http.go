package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/bher20/eratecache/internal/metrics"
	"github.com/bher20/eratecache/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildIDHeader carries the build ID of the snapshot a response was served from.
const BuildIDHeader = "X-Build-ID"

// RateReader is the read surface of the rate cache.
type RateReader interface {
	Snapshot() storage.Snapshot
}

// NewRouter wires the rates read API, health probes and metrics. refresher
// may be nil, in which case POST /refresh is not registered.
func NewRouter(cache RateReader, refresher Refresher, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "api"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("live"))
	})
	r.Get("/readyz", handleReady(cache))

	r.Get("/rates", handleRates(cache, log))
	r.Get("/rates/{pair}", handleRate(cache, log))
	r.Get("/buildid", handleBuildID(cache, log))

	if refresher != nil {
		r.Post("/refresh", handleRefresh(refresher, log))
	}

	return r
}

// handleReady reports ready only once a snapshot has been committed.
func handleReady(cache RateReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache.Snapshot().Empty() {
			http.Error(w, "exchange rates not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}

// handleRates serves the whole table. An empty cache is served as "{}" with
// an empty build ID; callers treat that as rates temporarily unavailable.
func handleRates(cache RateReader, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := cache.Snapshot()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(BuildIDHeader, snap.Version)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(snap.JSON)); err != nil {
			log.Warn("write rates response failed", zap.Error(err))
		}
	}
}

type RateResponse struct {
	Pair    string  `json:"pair"`
	Rate    float64 `json:"rate"`
	BuildID string  `json:"build_id"`
}

func handleRate(cache RateReader, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pair := chi.URLParam(r, "pair")
		snap := cache.Snapshot()

		rate, ok := snap.Rates[pair]
		if !ok {
			metrics.RequestErrorsTotal.WithLabelValues("/rates/{pair}", "404").Inc()
			http.Error(w, "unknown currency pair", http.StatusNotFound)
			return
		}

		w.Header().Set(BuildIDHeader, snap.Version)
		respondJSON(w, log, http.StatusOK, RateResponse{Pair: pair, Rate: rate, BuildID: snap.Version})
	}
}

type BuildIDResponse struct {
	BuildID     string     `json:"build_id"`
	CommittedAt *time.Time `json:"committed_at"`
	Pairs       int        `json:"pairs"`
}

func handleBuildID(cache RateReader, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := cache.Snapshot()

		resp := BuildIDResponse{BuildID: snap.Version, Pairs: len(snap.Rates)}
		if !snap.CommittedAt.IsZero() {
			at := snap.CommittedAt.UTC()
			resp.CommittedAt = &at
		}
		respondJSON(w, log, http.StatusOK, resp)
	}
}

func respondJSON(w http.ResponseWriter, log *zap.Logger, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn("encode response failed", zap.Error(err))
	}
}

// requestLogger logs each request and records per-route metrics.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			dur := time.Since(start)
			metrics.RequestsTotal.WithLabelValues(route).Inc()
			metrics.RequestDurationSeconds.WithLabelValues(route).Observe(dur.Seconds())
			if ww.Status() >= http.StatusInternalServerError {
				metrics.RequestErrorsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
			}

			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", dur),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
