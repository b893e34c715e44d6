package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

// Dependencies are the services the router dispatches to.
type Dependencies struct {
	Profiles ports.ProfileService
	Links    ports.LinkService
	Public   ports.PublicService
	Tracker  ports.ClickTracker
	Revoker  ports.SessionRevoker
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	// Initialize Handlers
	ph := NewProfileHandler(deps.Profiles)
	lh := NewLinkHandler(deps.Links)
	pub := NewPublicHandler(deps.Public, deps.Tracker)
	authHandler := NewAuthHandler(cfg, deps.Profiles, deps.Revoker)

	// Initialize Middleware
	mw := NewMiddleware(cfg, deps.Revoker)
	limiter := NewRateLimiter(cfg.TrackRatePerSecond, cfg.TrackBurst, cfg.TrustProxy)

	// Setup Router
	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /u/{username}", pub.Profile)
	mux.Handle("POST /u/{username}/links/{id}/click", limiter.Limit(http.HandlerFunc(pub.Click)))
	mux.Handle("GET /l/{id}", limiter.Limit(http.HandlerFunc(pub.Redirect)))
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes (API & Dashboard)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /api/v1/profile", ph.Get)
	protectedMux.HandleFunc("PATCH /api/v1/profile", ph.Update)
	protectedMux.HandleFunc("GET /api/v1/links", lh.List)
	protectedMux.HandleFunc("POST /api/v1/links", lh.Create)
	protectedMux.HandleFunc("PUT /api/v1/links/order", lh.Reorder)
	protectedMux.HandleFunc("PATCH /api/v1/links/{id}", lh.Update)
	protectedMux.HandleFunc("DELETE /api/v1/links/{id}", lh.Delete)
	protectedMux.HandleFunc("POST /api/v1/links/{id}/toggle", lh.Toggle)
	protectedMux.HandleFunc("GET /api/v1/links/{id}/stats", lh.Stats)
	protectedMux.HandleFunc("GET /api/v1/dashboard", lh.Dashboard)

	// Note: We match /api/v1/ to capture all API requests.
	// Since protectedMux contains the full paths, this works for dispatching.
	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return RequestLogger(cfg.TrustProxy)(Metrics(mux))
}
