package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/stratadesk/internal/domain/models"
)

func profileFixture(userID, username string) models.Profile {
	return models.Profile{
		UserID:      userID,
		Username:    username,
		DisplayName: "Casey",
		Wallpaper:   "sunset.jpg",
		AccentColor: "#ff6600",
	}
}

func TestSetProfile(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	p, err := env.mgr.SetProfile(ctx, "u1", profileFixture("ignored", "Casey"))
	if err != nil {
		t.Fatalf("SetProfile() error = %v", err)
	}
	if p.UserID != "u1" {
		t.Errorf("UserID = %q, want u1 (forced to actor owner)", p.UserID)
	}
	if p.UsernameCI == "" {
		t.Error("UsernameCI should be derived from the username")
	}
	if p.CreatedAt == 0 || p.UpdatedAt == 0 {
		t.Error("timestamps should be assigned")
	}

	got, err := env.mgr.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.Username != "Casey" || got.Wallpaper != "sunset.jpg" {
		t.Errorf("stored profile = %+v, want the replaced record", got)
	}
}

func TestSetProfileRequiresUsername(t *testing.T) {
	env := newTestEnv(t, Config{})

	_, err := env.mgr.SetProfile(context.Background(), "u1", models.Profile{DisplayName: "No Name"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestGetProfileDefaultsWhenUnprovisioned(t *testing.T) {
	env := newTestEnv(t, Config{})

	p, err := env.mgr.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if p.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", p.UserID)
	}
	if p.Username != "" {
		t.Errorf("Username = %q, want empty default", p.Username)
	}
}

func TestPatchProfileAllowListedFields(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	env.mgr.SetProfile(ctx, "u1", profileFixture("u1", "casey"))

	wallpaper := "ocean.jpg"
	bio := "<p>hello</p>"
	links := []string{"https://example.com"}
	p, err := env.mgr.PatchProfile(ctx, "u1", ProfilePatch{
		Wallpaper: &wallpaper,
		Bio:       &bio,
		Links:     &links,
	})
	if err != nil {
		t.Fatalf("PatchProfile() error = %v", err)
	}

	if p.Wallpaper != "ocean.jpg" || p.Bio != "<p>hello</p>" || len(p.Links) != 1 {
		t.Errorf("patched profile = %+v", p)
	}
	// Fields outside the patch are untouched; identity fields cannot be
	// reached through a patch at all.
	if p.Username != "casey" || p.AccentColor != "#ff6600" {
		t.Errorf("patch touched fields it should not: %+v", p)
	}
}

func TestPatchProfileUpdatesTimestamp(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	before, _ := env.mgr.SetProfile(ctx, "u1", profileFixture("u1", "casey"))

	env.clock.Advance(time.Second)
	name := "New Name"
	after, err := env.mgr.PatchProfile(ctx, "u1", ProfilePatch{DisplayName: &name})
	if err != nil {
		t.Fatalf("PatchProfile() error = %v", err)
	}
	if after.UpdatedAt <= before.UpdatedAt {
		t.Errorf("UpdatedAt = %d, want > %d", after.UpdatedAt, before.UpdatedAt)
	}
	if after.CreatedAt != before.CreatedAt {
		t.Errorf("CreatedAt changed on patch: %d != %d", after.CreatedAt, before.CreatedAt)
	}
}
