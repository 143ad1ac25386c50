package publicapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/stratadesk/internal/app/engine"
	"github.com/dalemusser/stratadesk/internal/app/store/desktop"
	"github.com/dalemusser/stratadesk/internal/app/store/snapshot"
	"github.com/dalemusser/stratadesk/internal/domain/models"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (http.Handler, *engine.Manager) {
	t.Helper()
	store := desktop.NewMemoryStore()
	eng := engine.New(store, snapshot.NewMemoryCache(), engine.Config{}, zap.NewNop())
	h := NewHandler(eng, store, zap.NewNop())
	return Routes(h), eng
}

func TestPublicDesktopByUsername(t *testing.T) {
	ctx := context.Background()
	router, eng := newTestRouter(t)

	if _, err := eng.SetProfile(ctx, "u1", models.Profile{Username: "ada", DisplayName: "Ada"}); err != nil {
		t.Fatalf("SetProfile() error = %v", err)
	}
	if _, err := eng.CreateItem(ctx, "u1", engine.CreateItemInput{
		ID: "pub", Type: "text", Name: "hello", IsPublic: true,
	}); err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	if _, err := eng.CreateItem(ctx, "u1", engine.CreateItemInput{
		ID: "priv", Type: "text", Name: "secret",
	}); err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	// Lookup is case-insensitive; no auth header needed.
	req := httptest.NewRequest(http.MethodGet, "/Ada", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var snap models.PublicSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if snap.Profile.Username != "ada" {
		t.Errorf("profile.username = %q, want %q", snap.Profile.Username, "ada")
	}
	if len(snap.Items) != 1 || snap.Items[0].ID != "pub" {
		t.Errorf("items = %+v, want only the public item", snap.Items)
	}
}

func TestUnknownUsernameReturns404(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nobody", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
