// internal/domain/models/profile.go
package models

// Profile holds one user's identity and desktop appearance settings.
//
// Identity fields (UserID, Username) are written once at provisioning via a
// full replace. Everything else is mutable afterward through the allow-listed
// partial update (see ProfilePatchFields); the allow-list is the authorization
// boundary for what a generic "update profile" call can touch.
type Profile struct {
	UserID      string `bson:"_id" json:"user_id"`
	Username    string `bson:"username" json:"username"`
	UsernameCI  string `bson:"username_ci" json:"-"` // folded for case/diacritic-insensitive lookup
	DisplayName string `bson:"display_name" json:"display_name"`

	// Appearance
	Wallpaper     string `bson:"wallpaper,omitempty" json:"wallpaper,omitempty"`
	AccentColor   string `bson:"accent_color,omitempty" json:"accent_color,omitempty"`
	DesktopColor  string `bson:"desktop_color,omitempty" json:"desktop_color,omitempty"`
	WindowColor   string `bson:"window_color,omitempty" json:"window_color,omitempty"`
	FontSmoothing string `bson:"font_smoothing,omitempty" json:"font_smoothing,omitempty"`
	CustomCSS     string `bson:"custom_css,omitempty" json:"custom_css,omitempty"`

	// Public page
	Bio              string   `bson:"bio,omitempty" json:"bio,omitempty"` // sanitized HTML
	Links            []string `bson:"links,omitempty" json:"links,omitempty"`
	ShareDescription string   `bson:"share_description,omitempty" json:"share_description,omitempty"`

	CreatedAt int64 `bson:"created_at" json:"created_at"`
	UpdatedAt int64 `bson:"updated_at" json:"updated_at"`
}

// ProfilePatchFields is the fixed allow-list of fields a partial profile
// update may modify. Any other field present in a patch payload is ignored,
// not an error.
var ProfilePatchFields = []string{
	"display_name",
	"wallpaper",
	"accent_color",
	"desktop_color",
	"window_color",
	"font_smoothing",
	"custom_css",
	"bio",
	"links",
	"share_description",
}
