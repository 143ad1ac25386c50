// internal/app/engine/profile.go
package engine

import (
	"context"

	"github.com/dalemusser/stratadesk/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
)

// ProfilePatch is the allow-listed partial profile update. Only the fields
// here can be touched by a generic "patch profile" call; anything else in the
// incoming payload is dropped during decoding, which makes this type the
// authorization boundary independent of the transport-layer auth check.
type ProfilePatch struct {
	DisplayName      *string   `json:"display_name,omitempty"`
	Wallpaper        *string   `json:"wallpaper,omitempty"`
	AccentColor      *string   `json:"accent_color,omitempty"`
	DesktopColor     *string   `json:"desktop_color,omitempty"`
	WindowColor      *string   `json:"window_color,omitempty"`
	FontSmoothing    *string   `json:"font_smoothing,omitempty"`
	CustomCSS        *string   `json:"custom_css,omitempty"`
	Bio              *string   `json:"bio,omitempty"`
	Links            *[]string `json:"links,omitempty"`
	ShareDescription *string   `json:"share_description,omitempty"`
}

// GetProfile returns the user's profile. Users that have not been
// provisioned yet get a minimal default record rather than an error.
func (m *Manager) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	a := m.actor(userID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := m.hydrate(ctx, a); err != nil {
		return nil, err
	}
	p := a.currentProfile()
	return &p, nil
}

// SetProfile stores the full profile record verbatim; used once, at account
// provisioning. UserID is forced to the actor's owner and the folded
// username is derived here so the public lookup index stays consistent.
func (m *Manager) SetProfile(ctx context.Context, userID string, p models.Profile) (*models.Profile, error) {
	if p.Username == "" {
		return nil, &ValidationError{Field: "username", Message: "username is required"}
	}

	a := m.actor(userID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := m.hydrate(ctx, a); err != nil {
		return nil, err
	}

	now := millis(m.clock.Now())
	p.UserID = userID
	p.UsernameCI = text.Fold(p.Username)
	if a.profile != nil {
		p.CreatedAt = a.profile.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	a.profile = &p
	if err := m.persistProfile(ctx, a); err != nil {
		return nil, err
	}

	m.logger.Debug("profile replaced",
		zap.String("user_id", userID),
		zap.String("username", p.Username))
	return &p, nil
}

// PatchProfile applies the allow-listed fields present in the patch and
// refreshes updated_at. Patching an unprovisioned profile starts from the
// minimal default record.
func (m *Manager) PatchProfile(ctx context.Context, userID string, patch ProfilePatch) (*models.Profile, error) {
	a := m.actor(userID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := m.hydrate(ctx, a); err != nil {
		return nil, err
	}

	p := a.currentProfile()
	if patch.DisplayName != nil {
		p.DisplayName = *patch.DisplayName
	}
	if patch.Wallpaper != nil {
		p.Wallpaper = *patch.Wallpaper
	}
	if patch.AccentColor != nil {
		p.AccentColor = *patch.AccentColor
	}
	if patch.DesktopColor != nil {
		p.DesktopColor = *patch.DesktopColor
	}
	if patch.WindowColor != nil {
		p.WindowColor = *patch.WindowColor
	}
	if patch.FontSmoothing != nil {
		p.FontSmoothing = *patch.FontSmoothing
	}
	if patch.CustomCSS != nil {
		p.CustomCSS = *patch.CustomCSS
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.Links != nil {
		p.Links = *patch.Links
	}
	if patch.ShareDescription != nil {
		p.ShareDescription = *patch.ShareDescription
	}
	p.UpdatedAt = millis(m.clock.Now())

	a.profile = &p
	if err := m.persistProfile(ctx, a); err != nil {
		return nil, err
	}

	m.logger.Debug("profile patched", zap.String("user_id", userID))
	return &p, nil
}
