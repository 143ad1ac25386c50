// Package desktopapi provides the per-user desktop state API.
//
// Endpoints (mounted at /api/desktop, all API key protected):
//   - GET    /{userID}/items              - full desktop state
//   - POST   /{userID}/items              - create an item
//   - PATCH  /{userID}/items              - batch partial update
//   - DELETE /{userID}/items/{itemID}     - hard delete one item
//   - GET    /{userID}/trash              - list trashed items
//   - POST   /{userID}/trash/{itemID}/restore - restore from trash
//   - POST   /{userID}/trash/empty        - destroy all trashed items
//   - GET    /{userID}/quota              - current quota snapshot
//   - POST   /{userID}/quota/check        - pre-flight a proposed upload size
//   - GET    /{userID}/profile            - profile
//   - PUT    /{userID}/profile            - replace profile (provisioning)
//   - PATCH  /{userID}/profile            - allow-listed partial update
//   - GET    /{userID}/public             - public projection (cached)
//   - GET    /{userID}/audit              - recorded mutation events
package desktopapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/stratadesk/internal/app/engine"
	"github.com/dalemusser/stratadesk/internal/app/store/audit"
	"github.com/dalemusser/stratadesk/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratadesk/internal/app/system/inputval"
	"github.com/dalemusser/stratadesk/internal/app/system/jsonutil"
	"github.com/dalemusser/stratadesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuditLog records desktop mutation events. Satisfied by audit.Store; may be
// nil to disable auditing.
type AuditLog interface {
	Append(ctx context.Context, ev audit.Event) error
	ListByUser(ctx context.Context, userID string, limit, page int64) ([]audit.Event, error)
}

// BlobStore releases stored blob bytes by key. Satisfied by
// waffle/pantry/storage.Store; may be nil when no blob backend is configured.
type BlobStore interface {
	Delete(ctx context.Context, key string) error
}

// Handler handles desktop state API requests.
type Handler struct {
	engine *engine.Manager
	audit  AuditLog
	blobs  BlobStore
	logger *zap.Logger
}

// NewHandler creates a new desktop API handler.
func NewHandler(eng *engine.Manager, auditLog AuditLog, blobs BlobStore, logger *zap.Logger) *Handler {
	return &Handler{
		engine: eng,
		audit:  auditLog,
		blobs:  blobs,
		logger: logger,
	}
}

// writeEngineError maps engine error classes onto HTTP responses.
//
//   - ValidationError  -> 400 with the field message
//   - ErrNotFound      -> 404
//   - QuotaError       -> 413 carrying the quota snapshot
//   - PersistError     -> 500 marked retryable
func (h *Handler) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *engine.ValidationError
	if errors.As(err, &ve) {
		if ve.Field != "" {
			jsonutil.ValidationError(w, map[string]string{ve.Field: ve.Message})
		} else {
			jsonutil.BadRequest(w, ve.Message)
		}
		return
	}

	if errors.Is(err, engine.ErrNotFound) {
		jsonutil.NotFound(w, "item not found")
		return
	}

	var qe *engine.QuotaError
	if errors.As(err, &qe) {
		jsonutil.ErrorWithDetails(w, http.StatusRequestEntityTooLarge, "storage quota exceeded", map[string]any{
			"requested": qe.Requested,
			"quota":     qe.Quota,
		})
		return
	}

	if engine.IsRetryable(err) {
		h.logger.Error("desktop persistence failure",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		jsonutil.ErrorWithDetails(w, http.StatusInternalServerError, "failed to persist desktop state", map[string]any{
			"retryable": true,
		})
		return
	}

	h.logger.Error("desktop API failure",
		zap.String("path", r.URL.Path),
		zap.Error(err))
	jsonutil.InternalError(w, "internal error")
}

// record appends an audit event, logging (never failing) on error.
func (h *Handler) record(ctx context.Context, ev audit.Event) {
	if h.audit == nil {
		return
	}
	if err := h.audit.Append(ctx, ev); err != nil {
		h.logger.Warn("failed to append audit event",
			zap.String("event_type", ev.EventType),
			zap.String("user_id", ev.UserID),
			zap.Error(err))
	}
}

// releaseBlobs deletes blob keys from the blob backend. Failures are logged;
// the item-level mutation has already committed.
func (h *Handler) releaseBlobs(ctx context.Context, userID string, keys []string) {
	if h.blobs == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := h.blobs.Delete(ctx, key); err != nil {
			h.logger.Warn("failed to release blob",
				zap.String("user_id", userID),
				zap.String("blob_key", key),
				zap.Error(err))
		}
	}
}

/*────────────────────────── items ──────────────────────────*/

// GetItemsHandler handles GET /{userID}/items.
func (h *Handler) GetItemsHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	state, err := h.engine.GetItems(r.Context(), userID)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	jsonutil.OK(w, state)
}

// CreateItemHandler handles POST /{userID}/items.
func (h *Handler) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var in engine.CreateItemInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	in.Content = htmlsanitize.Content(in.Content)

	item, err := h.engine.CreateItem(r.Context(), userID, in)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	h.record(r.Context(), audit.Event{
		UserID:    userID,
		EventType: audit.EventItemCreated,
		ItemID:    item.ID,
		Success:   true,
	})
	jsonutil.Created(w, item)
}

// PatchItemsHandler handles PATCH /{userID}/items. The body is a batch of
// per-item field updates applied and persisted as one unit.
func (h *Handler) PatchItemsHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var updates []engine.ItemUpdate
	if err := jsonutil.Decode(r, &updates); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if len(updates) == 0 {
		jsonutil.BadRequest(w, "empty update batch")
		return
	}
	for i := range updates {
		if updates[i].Patch.Content != nil {
			clean := htmlsanitize.Content(*updates[i].Patch.Content)
			updates[i].Patch.Content = &clean
		}
	}

	items, err := h.engine.PatchItems(r.Context(), userID, updates)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	h.record(r.Context(), audit.Event{
		UserID:    userID,
		EventType: audit.EventItemsPatched,
		ItemCount: len(items),
		Success:   true,
	})
	jsonutil.OK(w, map[string]any{"items": items})
}

// DeleteItemHandler handles DELETE /{userID}/items/{itemID}. This is a hard
// delete that bypasses the trash; the freed blob, if any, is released.
func (h *Handler) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	itemID := chi.URLParam(r, "itemID")

	res, err := h.engine.DeleteItem(r.Context(), userID, itemID)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	if res.BlobKey != "" {
		h.releaseBlobs(r.Context(), userID, []string{res.BlobKey})
	}
	h.record(r.Context(), audit.Event{
		UserID:    userID,
		EventType: audit.EventItemDeleted,
		ItemID:    itemID,
		Success:   true,
	})
	jsonutil.OK(w, res)
}

/*────────────────────────── trash ──────────────────────────*/

// ListTrashHandler handles GET /{userID}/trash.
func (h *Handler) ListTrashHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	items, err := h.engine.ListTrash(r.Context(), userID)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	jsonutil.OK(w, map[string]any{"items": items})
}

// RestoreHandler handles POST /{userID}/trash/{itemID}/restore.
func (h *Handler) RestoreHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	itemID := chi.URLParam(r, "itemID")

	res, err := h.engine.RestoreFromTrash(r.Context(), userID, itemID)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	if !res.Restored {
		jsonutil.NotFound(w, "no such item in trash")
		return
	}

	h.record(r.Context(), audit.Event{
		UserID:    userID,
		EventType: audit.EventItemRestored,
		ItemID:    itemID,
		Success:   true,
	})
	jsonutil.OK(w, res)
}

// EmptyTrashHandler handles POST /{userID}/trash/empty. Destroyed items'
// blobs are released after the state change commits.
func (h *Handler) EmptyTrashHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	res, err := h.engine.EmptyTrash(r.Context(), userID)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	h.releaseBlobs(r.Context(), userID, res.BlobKeys)
	if res.Deleted > 0 {
		h.record(r.Context(), audit.Event{
			UserID:    userID,
			EventType: audit.EventTrashEmptied,
			ItemCount: res.Deleted,
			Success:   true,
		})
	}
	jsonutil.OK(w, map[string]any{"deleted": res.Deleted})
}

/*────────────────────────── quota ──────────────────────────*/

// GetQuotaHandler handles GET /{userID}/quota.
func (h *Handler) GetQuotaHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	snap, err := h.engine.GetQuota(r.Context(), userID)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	jsonutil.OK(w, snap)
}

// CheckQuotaHandler handles POST /{userID}/quota/check. It answers whether a
// proposed upload of the given size would be admitted, without reserving
// anything.
func (h *Handler) CheckQuotaHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var in struct {
		Size int64 `json:"size"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	check, err := h.engine.CheckQuota(r.Context(), userID, in.Size)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	jsonutil.OK(w, check)
}

/*────────────────────────── profile ──────────────────────────*/

// setProfileInput is the PUT /profile payload: the full replacement record.
type setProfileInput struct {
	Username         string   `json:"username" validate:"required,username" label:"Username"`
	DisplayName      string   `json:"display_name" validate:"max=100" label:"Display name"`
	Wallpaper        string   `json:"wallpaper" validate:"httpurl" label:"Wallpaper"`
	AccentColor      string   `json:"accent_color" validate:"hexcolor" label:"Accent color"`
	DesktopColor     string   `json:"desktop_color" validate:"hexcolor" label:"Desktop color"`
	WindowColor      string   `json:"window_color" validate:"hexcolor" label:"Window color"`
	FontSmoothing    string   `json:"font_smoothing" validate:"max=32" label:"Font smoothing"`
	CustomCSS        string   `json:"custom_css" validate:"max=20000" label:"Custom CSS"`
	Bio              string   `json:"bio" validate:"max=4000" label:"Bio"`
	Links            []string `json:"links"`
	ShareDescription string   `json:"share_description" validate:"max=300" label:"Share description"`
}

// GetProfileHandler handles GET /{userID}/profile.
func (h *Handler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	p, err := h.engine.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	jsonutil.OK(w, p)
}

// SetProfileHandler handles PUT /{userID}/profile: full replacement, used at
// provisioning and by admin tooling.
func (h *Handler) SetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var in setProfileInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.ValidationError(w, res.Fields())
		return
	}

	p, err := h.engine.SetProfile(r.Context(), userID, models.Profile{
		Username:         in.Username,
		DisplayName:      htmlsanitize.StripTags(in.DisplayName),
		Wallpaper:        in.Wallpaper,
		AccentColor:      in.AccentColor,
		DesktopColor:     in.DesktopColor,
		WindowColor:      in.WindowColor,
		FontSmoothing:    in.FontSmoothing,
		CustomCSS:        in.CustomCSS,
		Bio:              htmlsanitize.Bio(in.Bio),
		Links:            in.Links,
		ShareDescription: htmlsanitize.StripTags(in.ShareDescription),
	})
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	h.record(r.Context(), audit.Event{
		UserID:    userID,
		EventType: audit.EventProfileSet,
		Success:   true,
	})
	jsonutil.OK(w, p)
}

// patchProfileInput mirrors engine.ProfilePatch with validation tags; only
// allow-listed fields exist here, so unknown fields in the payload are
// dropped by JSON decoding rather than rejected.
type patchProfileInput struct {
	DisplayName      *string   `json:"display_name" validate:"max=100" label:"Display name"`
	Wallpaper        *string   `json:"wallpaper" validate:"httpurl" label:"Wallpaper"`
	AccentColor      *string   `json:"accent_color" validate:"hexcolor" label:"Accent color"`
	DesktopColor     *string   `json:"desktop_color" validate:"hexcolor" label:"Desktop color"`
	WindowColor      *string   `json:"window_color" validate:"hexcolor" label:"Window color"`
	FontSmoothing    *string   `json:"font_smoothing" validate:"max=32" label:"Font smoothing"`
	CustomCSS        *string   `json:"custom_css" validate:"max=20000" label:"Custom CSS"`
	Bio              *string   `json:"bio" validate:"max=4000" label:"Bio"`
	Links            *[]string `json:"links"`
	ShareDescription *string   `json:"share_description" validate:"max=300" label:"Share description"`
}

// PatchProfileHandler handles PATCH /{userID}/profile: allow-listed partial
// update. Identity fields (user id, username) cannot be changed here.
func (h *Handler) PatchProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var in patchProfileInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}
	if res := validateProfilePatch(in); res.HasErrors() {
		jsonutil.ValidationError(w, res.Fields())
		return
	}

	patch := engine.ProfilePatch{
		DisplayName:      sanitizedPtr(in.DisplayName, htmlsanitize.StripTags),
		Wallpaper:        in.Wallpaper,
		AccentColor:      in.AccentColor,
		DesktopColor:     in.DesktopColor,
		WindowColor:      in.WindowColor,
		FontSmoothing:    in.FontSmoothing,
		CustomCSS:        in.CustomCSS,
		Bio:              sanitizedPtr(in.Bio, htmlsanitize.Bio),
		Links:            in.Links,
		ShareDescription: sanitizedPtr(in.ShareDescription, htmlsanitize.StripTags),
	}

	p, err := h.engine.PatchProfile(r.Context(), userID, patch)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	h.record(r.Context(), audit.Event{
		UserID:    userID,
		EventType: audit.EventProfilePatched,
		Success:   true,
	})
	jsonutil.OK(w, p)
}

// validateProfilePatch runs the rule set against only the fields present in
// the patch. Absent pointers are skipped entirely.
func validateProfilePatch(in patchProfileInput) *inputval.Result {
	flat := setProfileInput{Username: "placeholder"}
	if in.DisplayName != nil {
		flat.DisplayName = *in.DisplayName
	}
	if in.Wallpaper != nil {
		flat.Wallpaper = *in.Wallpaper
	}
	if in.AccentColor != nil {
		flat.AccentColor = *in.AccentColor
	}
	if in.DesktopColor != nil {
		flat.DesktopColor = *in.DesktopColor
	}
	if in.WindowColor != nil {
		flat.WindowColor = *in.WindowColor
	}
	if in.FontSmoothing != nil {
		flat.FontSmoothing = *in.FontSmoothing
	}
	if in.CustomCSS != nil {
		flat.CustomCSS = *in.CustomCSS
	}
	if in.Bio != nil {
		flat.Bio = *in.Bio
	}
	if in.ShareDescription != nil {
		flat.ShareDescription = *in.ShareDescription
	}
	return inputval.Validate(flat)
}

// sanitizedPtr applies a sanitizer to an optional field, preserving absence.
func sanitizedPtr(s *string, clean func(string) string) *string {
	if s == nil {
		return nil
	}
	out := clean(*s)
	return &out
}

/*────────────────────────── public projection ──────────────────────────*/

// PublicSnapshotHandler handles GET /{userID}/public: the visitor-visible
// projection, possibly a few minutes stale (served from the side cache).
func (h *Handler) PublicSnapshotHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	snap, err := h.engine.PublicSnapshot(r.Context(), userID)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	jsonutil.OK(w, snap)
}

/*────────────────────────── audit trail ──────────────────────────*/

// GetAuditHandler handles GET /{userID}/audit: the user's recorded mutation
// events, newest first, paged by limit and page query parameters.
func (h *Handler) GetAuditHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if h.audit == nil {
		jsonutil.OK(w, map[string]any{"events": []audit.Event{}})
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)

	events, err := h.audit.ListByUser(r.Context(), userID, limit, page)
	if err != nil {
		h.logger.Error("audit listing failed",
			zap.String("user_id", userID),
			zap.Error(err))
		jsonutil.InternalError(w, "failed to list audit events")
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	jsonutil.OK(w, map[string]any{"events": events})
}
