package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bracketlab/predict-api/internal/artifact"
)

// cacheTTL bounds how long a cached prediction response lives. Predictions
// only change when the pipeline reruns, so staleness is cheap.
const cacheTTL = 10 * time.Minute

type Config struct {
	Store          *artifact.Store
	Redis          *redis.Client // nil disables the response cache
	Logger         *zap.Logger
	AllowedOrigins []string
}

type Handler struct {
	store  *artifact.Store
	redis  *redis.Client
	logger *zap.SugaredLogger
}

func New(cfg Config) *Handler {
	return &Handler{
		store:  cfg.Store,
		redis:  cfg.Redis,
		logger: cfg.Logger.Sugar(),
	}
}

// Router assembles the API surface.
func Router(cfg Config) http.Handler {
	h := New(cfg)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))

	r.Get("/api/v1/health", h.Health)
	r.Get("/api/v1/predictions/{season}/{teamA}/{teamB}", h.GetPrediction)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func requestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
			)
		})
	}
}
