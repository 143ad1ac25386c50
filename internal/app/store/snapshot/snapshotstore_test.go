package snapshot

import (
	"testing"
	"time"

	"github.com/dalemusser/stratadesk/internal/domain/models"
	"github.com/dalemusser/stratadesk/internal/testutil"
)

func testSnapshot() models.PublicSnapshot {
	return models.PublicSnapshot{
		Profile: models.Profile{UserID: "u1", Username: "ada"},
		Items: []models.Item{
			{ID: "pub", Type: models.TypeText, Name: "hello", IsPublic: true},
		},
	}
}

func TestPutAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Put(ctx, "u1", testSnapshot(), 5*time.Minute); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	snap, ok, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() reported miss for a fresh entry")
	}
	if snap.Profile.Username != "ada" || len(snap.Items) != 1 {
		t.Errorf("snapshot = %+v, did not round-trip", snap)
	}
}

func TestGetMissForUnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, ok, err := store.Get(ctx, "nobody")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() reported hit for absent entry")
	}
}

func TestExpiredEntryIsMiss(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Negative TTL writes an already-expired entry; the read path must treat
	// it as a miss without waiting for Mongo's TTL monitor.
	if err := store.Put(ctx, "u1", testSnapshot(), -time.Second); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	_, ok, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() reported hit for an expired entry")
	}
}

func TestPutReplacesExistingEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Put(ctx, "u1", testSnapshot(), 5*time.Minute); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	updated := testSnapshot()
	updated.Items = nil
	if err := store.Put(ctx, "u1", updated, 5*time.Minute); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	snap, ok, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() reported miss after replace")
	}
	if len(snap.Items) != 0 {
		t.Errorf("snapshot items = %+v, want replaced (empty)", snap.Items)
	}
}
