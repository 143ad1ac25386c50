// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	desktopapifeature "github.com/dalemusser/stratadesk/internal/app/features/desktopapi"
	healthfeature "github.com/dalemusser/stratadesk/internal/app/features/health"
	publicapifeature "github.com/dalemusser/stratadesk/internal/app/features/publicapi"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so the desktop engine and stores built in
// Startup are available here.
//
// Route groups:
//   - /api/desktop/* : API key auth, permissive CORS (trusted backend callers)
//   - /api/public/*  : anonymous, permissive CORS (public desktop pages)
//   - /health, /ready, /livez : probes
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Request timeout middleware: prevents requests from hanging
	// indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// Security headers middleware: X-Frame-Options, X-Content-Type-Options,
	// etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Desktop state API (API key protected; CORS applied inside the feature
	// router).
	desktopHandler := desktopapifeature.NewHandler(desktopEngine, auditLog, deps.BlobStorage, logger)
	r.Mount("/api/desktop", desktopapifeature.Routes(desktopHandler, appCfg.APIKey, appCfg.CORSAllowedOrigins, logger))

	// Anonymous public projection.
	publicHandler := publicapifeature.NewHandler(desktopEngine, desktopStore, logger)
	r.Mount("/api/public", publicapifeature.Routes(publicHandler))

	// Health checks and Kubernetes probes.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	return r, nil
}
