// Package publicapi serves the anonymous public desktop projection.
//
// Endpoints (mounted at /api/public, no authentication):
//   - GET /{username} - the named user's public items and profile
//
// Usernames are resolved case- and diacritic-insensitively. Responses come
// from the engine's short-TTL side cache, so they may lag the owner's latest
// edits by a few minutes; they never include private or trashed items.
package publicapi

import (
	"context"
	"net/http"

	"github.com/dalemusser/stratadesk/internal/app/engine"
	"github.com/dalemusser/stratadesk/internal/app/system/apicors"
	"github.com/dalemusser/stratadesk/internal/app/system/jsonutil"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UsernameResolver maps a folded public username to a user id. Satisfied by
// the desktop store.
type UsernameResolver interface {
	FindUserIDByUsername(ctx context.Context, usernameCI string) (string, error)
}

// Handler handles anonymous public projection requests.
type Handler struct {
	engine   *engine.Manager
	resolver UsernameResolver
	logger   *zap.Logger
}

// NewHandler creates a new public API handler.
func NewHandler(eng *engine.Manager, resolver UsernameResolver, logger *zap.Logger) *Handler {
	return &Handler{
		engine:   eng,
		resolver: resolver,
		logger:   logger,
	}
}

// Routes returns a router with the public projection endpoint.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(apicors.Middleware())
	r.Get("/{username}", h.PublicDesktopHandler)
	return r
}

// PublicDesktopHandler handles GET /{username}.
func (h *Handler) PublicDesktopHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	userID, err := h.resolver.FindUserIDByUsername(r.Context(), text.Fold(username))
	if err != nil {
		h.logger.Error("username lookup failed",
			zap.String("username", username),
			zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}
	if userID == "" {
		jsonutil.NotFound(w, "no such user")
		return
	}

	snap, err := h.engine.PublicSnapshot(r.Context(), userID)
	if err != nil {
		h.logger.Error("public snapshot failed",
			zap.String("user_id", userID),
			zap.Error(err))
		jsonutil.InternalError(w, "internal error")
		return
	}
	jsonutil.OK(w, snap)
}
