// internal/app/engine/items.go
package engine

import (
	"context"

	"github.com/dalemusser/stratadesk/internal/domain/models"
	"go.uber.org/zap"
)

// maxNameLength bounds item display names.
const maxNameLength = 255

// DesktopState is the full read view of one user's desktop: the item list
// (active and trashed) paired with the profile.
type DesktopState struct {
	Items   []models.Item  `json:"items"`
	Profile models.Profile `json:"profile"`
}

// CreateItemInput contains the input for creating an item. Zero values fall
// back to defaults: Type to folder, Position to the origin, IsPublic to
// false. ID may be caller-supplied (the web client assigns ids so icons
// exist before the server round-trip) or left empty for a generated UUID.
type CreateItemInput struct {
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type,omitempty"`
	Name     string           `json:"name"`
	ParentID string           `json:"parent_id,omitempty"`
	Position *models.Position `json:"position,omitempty"`
	IsPublic bool             `json:"is_public,omitempty"`

	BlobKey      string         `json:"blob_key,omitempty"`
	MimeType     string         `json:"mime_type,omitempty"`
	FileSize     int64          `json:"file_size,omitempty"`
	Content      string         `json:"content,omitempty"`
	URL          string         `json:"url,omitempty"`
	WidgetKind   string         `json:"widget_kind,omitempty"`
	WidgetConfig map[string]any `json:"widget_config,omitempty"`
}

// ItemPatch is a partial overwrite of an item. Nil fields are left
// untouched. ParentID set to the empty string moves the item to the desktop
// root (item ids are never empty). Setting IsTrashed moves the item in or
// out of the trash; the engine stamps or clears trashed_at itself.
type ItemPatch struct {
	Name     *string          `json:"name,omitempty"`
	ParentID *string          `json:"parent_id,omitempty"`
	Position *models.Position `json:"position,omitempty"`
	IsPublic *bool            `json:"is_public,omitempty"`

	IsTrashed *bool `json:"is_trashed,omitempty"`

	BlobKey      *string         `json:"blob_key,omitempty"`
	MimeType     *string         `json:"mime_type,omitempty"`
	FileSize     *int64          `json:"file_size,omitempty"`
	Content      *string         `json:"content,omitempty"`
	URL          *string         `json:"url,omitempty"`
	WidgetKind   *string         `json:"widget_kind,omitempty"`
	WidgetConfig *map[string]any `json:"widget_config,omitempty"`
}

// ItemUpdate pairs an item id with the fields to merge into it.
type ItemUpdate struct {
	ID    string    `json:"id"`
	Patch ItemPatch `json:"fields"`
}

// DeleteResult reports the outcome of a hard delete. BlobKey is the orphaned
// blob-store key, if the item carried one; the caller is responsible for
// releasing the underlying bytes.
type DeleteResult struct {
	Deleted bool   `json:"deleted"`
	BlobKey string `json:"blob_key,omitempty"`
}

// GetItems returns the user's full item list and profile.
func (m *Manager) GetItems(ctx context.Context, userID string) (*DesktopState, error) {
	a := m.actor(userID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := m.hydrate(ctx, a); err != nil {
		return nil, err
	}
	return &DesktopState{Items: a.itemList(), Profile: a.currentProfile()}, nil
}

// CreateItem validates the input, fills defaults, assigns timestamps,
// inserts the item and persists the desktop. Items carrying a file size are
// gated by the storage quota before admission.
func (m *Manager) CreateItem(ctx context.Context, userID string, in CreateItemInput) (*models.Item, error) {
	a := m.actor(userID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := m.hydrate(ctx, a); err != nil {
		return nil, err
	}

	if err := validateCreate(in); err != nil {
		return nil, err
	}
	if in.ID != "" {
		if _, exists := a.items[in.ID]; exists {
			return nil, &ValidationError{Field: "id", Message: "an item with this id already exists"}
		}
	}
	if in.FileSize > 0 {
		snap := m.quotaSnapshot(a)
		if snap.Used+in.FileSize > snap.Limit {
			return nil, &QuotaError{Requested: in.FileSize, Quota: snap}
		}
	}

	now := millis(m.clock.Now())
	it := models.Item{
		ID:           in.ID,
		Type:         in.Type,
		Name:         in.Name,
		ParentID:     in.ParentID,
		IsPublic:     in.IsPublic,
		CreatedAt:    now,
		UpdatedAt:    now,
		BlobKey:      in.BlobKey,
		MimeType:     in.MimeType,
		FileSize:     in.FileSize,
		Content:      in.Content,
		URL:          in.URL,
		WidgetKind:   in.WidgetKind,
		WidgetConfig: in.WidgetConfig,
	}
	if it.ID == "" {
		it.ID = m.ids.New()
	}
	if it.Type == "" {
		it.Type = models.TypeFolder
	}
	if in.Position != nil {
		it.Position = *in.Position
	}

	a.items[it.ID] = &it
	if err := m.persistItems(ctx, a); err != nil {
		return nil, err
	}

	m.logger.Debug("item created",
		zap.String("user_id", userID),
		zap.String("item_id", it.ID),
		zap.String("type", it.Type))
	return &it, nil
}

// PatchItems merges each update's fields into the matching item and bumps its
// updated_at. Ids not present in the store are silently skipped, not an
// error; callers needing strict semantics compare the returned set against
// their request. The whole batch is persisted in a single durability
// round-trip.
func (m *Manager) PatchItems(ctx context.Context, userID string, updates []ItemUpdate) ([]models.Item, error) {
	a := m.actor(userID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := m.hydrate(ctx, a); err != nil {
		return nil, err
	}

	// The batch runs against a staged copy of the tree, each update
	// validated after the ones before it have been applied. Quota growth
	// therefore accumulates across the batch and a reparent sees the
	// parent links earlier updates just rewrote, so neither a combined
	// overage nor a mutual reparent can slip past per-update checks. A
	// rejection anywhere discards the stage and the desktop is untouched.
	staged := a.stagedCopy()

	now := millis(m.clock.Now())
	updated := make([]models.Item, 0, len(updates))
	for _, u := range updates {
		it, ok := staged.items[u.ID]
		if !ok {
			continue
		}
		if err := m.validatePatch(staged, it, u.Patch); err != nil {
			return nil, err
		}
		m.applyPatch(it, u.Patch, now)
		updated = append(updated, *it)
	}

	if len(updated) > 0 {
		a.items = staged.items
		if err := m.persistItems(ctx, a); err != nil {
			return nil, err
		}
	}

	m.logger.Debug("items patched",
		zap.String("user_id", userID),
		zap.Int("requested", len(updates)),
		zap.Int("updated", len(updated)))
	return updated, nil
}

// DeleteItem hard-removes a single item, bypassing the trash, and reports
// the blob key that is now orphaned if the item carried one. A missing item
// is ErrNotFound. Children of a deleted folder are not cascaded; they keep
// their dangling parent_id and surface at the desktop root.
func (m *Manager) DeleteItem(ctx context.Context, userID, itemID string) (*DeleteResult, error) {
	a := m.actor(userID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := m.hydrate(ctx, a); err != nil {
		return nil, err
	}

	it, ok := a.items[itemID]
	if !ok {
		return nil, ErrNotFound
	}
	blobKey := it.BlobKey
	delete(a.items, itemID)

	if err := m.persistItems(ctx, a); err != nil {
		return nil, err
	}

	m.logger.Debug("item deleted",
		zap.String("user_id", userID),
		zap.String("item_id", itemID),
		zap.Bool("had_blob", blobKey != ""))
	return &DeleteResult{Deleted: true, BlobKey: blobKey}, nil
}

// validateCreate rejects malformed create payloads before any state change.
func validateCreate(in CreateItemInput) error {
	if in.Type != "" && !models.IsValidItemType(in.Type) {
		return &ValidationError{Field: "type", Message: "unknown item type"}
	}
	if len(in.Name) > maxNameLength {
		return &ValidationError{Field: "name", Message: "name is too long"}
	}
	if in.FileSize < 0 {
		return &ValidationError{Field: "file_size", Message: "file size cannot be negative"}
	}
	return nil
}

// validatePatch rejects malformed patch fields, including a reparenting that
// would make an item its own ancestor. Caller must hold the actor's mutex.
func (m *Manager) validatePatch(a *actor, it *models.Item, p ItemPatch) error {
	if p.Name != nil && len(*p.Name) > maxNameLength {
		return &ValidationError{Field: "name", Message: "name is too long"}
	}
	if p.FileSize != nil {
		if *p.FileSize < 0 {
			return &ValidationError{Field: "file_size", Message: "file size cannot be negative"}
		}
		if grow := *p.FileSize - it.FileSize; grow > 0 {
			snap := m.quotaSnapshot(a)
			if snap.Used+grow > snap.Limit {
				return &QuotaError{Requested: grow, Quota: snap}
			}
		}
	}
	if p.ParentID != nil && *p.ParentID != "" {
		if *p.ParentID == it.ID {
			return &ValidationError{Field: "parent_id", Message: "an item cannot be its own parent"}
		}
		if a.isDescendant(*p.ParentID, it.ID) {
			return &ValidationError{Field: "parent_id", Message: "an item cannot be moved into its own descendant"}
		}
	}
	return nil
}

// stagedCopy clones the actor's item map with fresh Item values, for batch
// validation that must not touch committed state. Caller must hold the
// mutex.
func (a *actor) stagedCopy() *actor {
	items := make(map[string]*models.Item, len(a.items))
	for id, it := range a.items {
		cp := *it
		items[id] = &cp
	}
	return &actor{userID: a.userID, items: items}
}

// isDescendant reports whether candidate sits somewhere below ancestorID in
// the tree. The walk is bounded by the item count so a pre-existing parent
// cycle cannot loop forever.
func (a *actor) isDescendant(candidate, ancestorID string) bool {
	seen := 0
	for id := candidate; id != "" && seen <= len(a.items); seen++ {
		it, ok := a.items[id]
		if !ok {
			return false
		}
		if it.ParentID == ancestorID {
			return true
		}
		id = it.ParentID
	}
	return false
}

// applyPatch merges non-nil patch fields into the item and refreshes
// updated_at. Trash transitions stamp or clear trashed_at.
func (m *Manager) applyPatch(it *models.Item, p ItemPatch, now int64) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.ParentID != nil {
		it.ParentID = *p.ParentID
	}
	if p.Position != nil {
		it.Position = *p.Position
	}
	if p.IsPublic != nil {
		it.IsPublic = *p.IsPublic
	}
	if p.IsTrashed != nil && *p.IsTrashed != it.IsTrashed {
		if *p.IsTrashed {
			it.IsTrashed = true
			it.TrashedAt = now
		} else {
			it.IsTrashed = false
			it.TrashedAt = 0
		}
	}
	if p.BlobKey != nil {
		it.BlobKey = *p.BlobKey
	}
	if p.MimeType != nil {
		it.MimeType = *p.MimeType
	}
	if p.FileSize != nil {
		it.FileSize = *p.FileSize
	}
	if p.Content != nil {
		it.Content = *p.Content
	}
	if p.URL != nil {
		it.URL = *p.URL
	}
	if p.WidgetKind != nil {
		it.WidgetKind = *p.WidgetKind
	}
	if p.WidgetConfig != nil {
		it.WidgetConfig = *p.WidgetConfig
	}
	it.UpdatedAt = now
}
