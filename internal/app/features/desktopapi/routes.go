package desktopapi

import (
	"net/http"

	"github.com/dalemusser/stratadesk/internal/app/system/apicors"
	"github.com/dalemusser/stratadesk/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes returns a router with the desktop state API endpoints.
//
// Authentication is via API key (Bearer token in the Authorization header);
// the caller is a trusted backend that has already authenticated the end
// user, so userID in the path is taken at face value. API key auth carries
// no cookies, so CORS is permissive unless an origin allow-list is
// configured.
func Routes(h *Handler, apiKey string, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	if len(allowedOrigins) > 0 {
		r.Use(apicors.MiddlewareWithOrigins(allowedOrigins...))
	} else {
		r.Use(apicors.Middleware())
	}
	r.Use(auth.APIKeyAuth(apiKey, logger))

	r.Route("/{userID}", func(ur chi.Router) {
		ur.Get("/items", h.GetItemsHandler)
		ur.Post("/items", h.CreateItemHandler)
		ur.Patch("/items", h.PatchItemsHandler)
		ur.Delete("/items/{itemID}", h.DeleteItemHandler)

		ur.Get("/trash", h.ListTrashHandler)
		ur.Post("/trash/empty", h.EmptyTrashHandler)
		ur.Post("/trash/{itemID}/restore", h.RestoreHandler)

		ur.Get("/quota", h.GetQuotaHandler)
		ur.Post("/quota/check", h.CheckQuotaHandler)

		ur.Get("/profile", h.GetProfileHandler)
		ur.Put("/profile", h.SetProfileHandler)
		ur.Patch("/profile", h.PatchProfileHandler)

		ur.Get("/public", h.PublicSnapshotHandler)

		ur.Get("/audit", h.GetAuditHandler)
	})

	return r
}
