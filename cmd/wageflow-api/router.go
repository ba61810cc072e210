package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/wageflow/wageflow-backend/internal/auth/jwt"
	"github.com/wageflow/wageflow-backend/internal/workforce/handler"
	"github.com/wageflow/wageflow-backend/pkg/httputil"
	"github.com/wageflow/wageflow-backend/pkg/logger"
)

type routerDeps struct {
	allowedOrigins []string
	trustProxy     bool
	auth           *jwt.Manager
	rateLimit      func(http.Handler) http.Handler
	handlers       *handler.Handlers
	health         func(ctx context.Context) map[string]any
	logger         *logger.Logger
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware. RealIP rewrites RemoteAddr from client headers, so
	// it only runs behind a trusted proxy.
	if d.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(d.logger))
	r.Use(httputil.Recoverer(d.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, d.health(r.Context()))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(d.rateLimit)
		r.Use(d.auth.Authenticate)
		d.handlers.Mount(r)
	})

	return r
}
