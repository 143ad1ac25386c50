package desktop

import (
	"testing"

	"github.com/dalemusser/stratadesk/internal/domain/models"
	"github.com/dalemusser/stratadesk/internal/testutil"
)

func TestSaveAndLoadItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	items := []models.Item{
		{ID: "a", Type: models.TypeFolder, Name: "docs", CreatedAt: 1, UpdatedAt: 1},
		{ID: "b", Type: models.TypeImage, Name: "pic.png", ParentID: "a",
			BlobKey: "blobs/pic", FileSize: 1024, CreatedAt: 2, UpdatedAt: 2},
	}
	if err := store.SaveItems(ctx, "u1", items); err != nil {
		t.Fatalf("SaveItems() error = %v", err)
	}

	got, err := store.LoadItems(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadItems() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LoadItems() returned %d items, want 2", len(got))
	}
	if got[1].BlobKey != "blobs/pic" || got[1].FileSize != 1024 {
		t.Errorf("item b = %+v, blob fields did not round-trip", got[1])
	}

	// Save is a wholesale replace, not a merge.
	if err := store.SaveItems(ctx, "u1", items[:1]); err != nil {
		t.Fatalf("SaveItems() error = %v", err)
	}
	got, err = store.LoadItems(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadItems() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("after replace, items = %+v, want only [a]", got)
	}
}

func TestLoadItemsForUnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := store.LoadItems(ctx, "nobody")
	if err != nil {
		t.Fatalf("LoadItems() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("LoadItems(nobody) = %+v, want empty", got)
	}
}

func TestSaveAndLoadProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.LoadProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p != nil {
		t.Fatalf("LoadProfile() before save = %+v, want nil", p)
	}

	profile := models.Profile{
		UserID:     "u1",
		Username:   "ada",
		UsernameCI: "ada",
		CreatedAt:  1,
		UpdatedAt:  1,
	}
	if err := store.SaveProfile(ctx, "u1", profile); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	p, err = store.LoadProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p == nil || p.Username != "ada" {
		t.Errorf("LoadProfile() = %+v, want username ada", p)
	}
}

func TestFindUserIDByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.SaveProfile(ctx, "u1", models.Profile{
		UserID: "u1", Username: "Ada", UsernameCI: "ada",
	}); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	id, err := store.FindUserIDByUsername(ctx, "ada")
	if err != nil {
		t.Fatalf("FindUserIDByUsername() error = %v", err)
	}
	if id != "u1" {
		t.Errorf("FindUserIDByUsername(ada) = %q, want u1", id)
	}

	id, err = store.FindUserIDByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("FindUserIDByUsername(nobody) error = %v", err)
	}
	if id != "" {
		t.Errorf("FindUserIDByUsername(nobody) = %q, want empty", id)
	}
}

func TestListUserIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, userID := range []string{"u1", "u2"} {
		if err := store.SaveItems(ctx, userID, []models.Item{
			{ID: userID + "-a", Type: models.TypeFolder, Name: "docs"},
		}); err != nil {
			t.Fatalf("SaveItems(%s) error = %v", userID, err)
		}
	}

	ids, err := store.ListUserIDs(ctx)
	if err != nil {
		t.Fatalf("ListUserIDs() error = %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("ListUserIDs() = %v, want 2 users", ids)
	}
}
