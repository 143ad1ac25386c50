// internal/domain/models/item.go
package models

// Terminology: Item Identifiers
//   - ItemID / itemID / item id: The opaque string that uniquely identifies an
//     item within one user's desktop. Clients may supply their own (the web
//     client does, so icons exist before the server round-trip); the engine
//     generates a UUID when none is given.
//   - UserID / userID / user_id: The stable string identifier of the desktop's
//     owner, supplied by the authentication layer.

// Item types. An item is one node in a user's desktop forest; the record
// shape is shared across kinds and the optional payload fields below apply
// depending on Type.
const (
	TypeFolder = "folder"
	TypeImage  = "image"
	TypeText   = "text"
	TypeLink   = "link"
	TypeAudio  = "audio"
	TypeVideo  = "video"
	TypePDF    = "pdf"
	TypeWidget = "widget"
)

// AllItemTypes lists every valid item type.
var AllItemTypes = []string{
	TypeFolder, TypeImage, TypeText, TypeLink,
	TypeAudio, TypeVideo, TypePDF, TypeWidget,
}

// IsValidItemType reports whether t is a member of the closed item type set.
func IsValidItemType(t string) bool {
	for _, v := range AllItemTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Position is an item's grid coordinate on the desktop. Uniqueness within a
// sibling set is informal; collisions are resolved by the client, not here.
type Position struct {
	X int `bson:"x" json:"x"`
	Y int `bson:"y" json:"y"`
}

// Item represents one node in a user's desktop tree.
//
// ParentID references another item's ID, or is empty for the desktop root.
// Items form a forest (multiple roots are allowed). Timestamps are wall-clock
// milliseconds; UpdatedAt is refreshed on every mutation.
type Item struct {
	ID       string   `bson:"id" json:"id"`
	Type     string   `bson:"type" json:"type"`
	Name     string   `bson:"name" json:"name"`
	ParentID string   `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	Position Position `bson:"position" json:"position"`
	IsPublic bool     `bson:"is_public" json:"is_public"`

	// Trash state. IsTrashed false means active; TrashedAt is zero unless
	// IsTrashed is set.
	IsTrashed bool  `bson:"is_trashed,omitempty" json:"is_trashed,omitempty"`
	TrashedAt int64 `bson:"trashed_at,omitempty" json:"trashed_at,omitempty"`

	CreatedAt int64 `bson:"created_at" json:"created_at"`
	UpdatedAt int64 `bson:"updated_at" json:"updated_at"`

	// Payload fields, by type. BlobKey references bytes in the external blob
	// store; the engine tracks keys and sizes but never the bytes themselves.
	BlobKey      string         `bson:"blob_key,omitempty" json:"blob_key,omitempty"`
	MimeType     string         `bson:"mime_type,omitempty" json:"mime_type,omitempty"`
	FileSize     int64          `bson:"file_size,omitempty" json:"file_size,omitempty"`
	Content      string         `bson:"content,omitempty" json:"content,omitempty"`
	URL          string         `bson:"url,omitempty" json:"url,omitempty"`
	WidgetKind   string         `bson:"widget_kind,omitempty" json:"widget_kind,omitempty"`
	WidgetConfig map[string]any `bson:"widget_config,omitempty" json:"widget_config,omitempty"`
}

// IsActive reports whether the item is visible on the desktop (not trashed).
func (it *Item) IsActive() bool {
	return !it.IsTrashed
}

// HasBlob reports whether the item references bytes in the blob store.
func (it *Item) HasBlob() bool {
	return it.BlobKey != ""
}
