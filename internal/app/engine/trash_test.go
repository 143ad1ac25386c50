package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

// trashItem soft-deletes an item through the patch path, the way clients do.
func trashItem(t *testing.T, env *testEnv, userID, itemID string, trashed bool) {
	t.Helper()
	v := trashed
	if _, err := env.mgr.PatchItems(context.Background(), userID, []ItemUpdate{
		{ID: itemID, Patch: ItemPatch{IsTrashed: &v}},
	}); err != nil {
		t.Fatalf("trash patch error = %v", err)
	}
}

func TestTrashAndRestoreRoundTrip(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	it, _ := env.mgr.CreateItem(ctx, "u1", CreateItemInput{
		Name: "photo", Type: "image", FileSize: 100, IsPublic: true,
	})

	env.clock.Advance(time.Second)
	trashItem(t, env, "u1", it.ID, true)

	trashed, err := env.mgr.ListTrash(ctx, "u1")
	if err != nil {
		t.Fatalf("ListTrash() error = %v", err)
	}
	if len(trashed) != 1 {
		t.Fatalf("trash count = %d, want 1", len(trashed))
	}
	if !trashed[0].IsTrashed || trashed[0].TrashedAt == 0 {
		t.Errorf("trash state = trashed:%v at:%d, want trashed with timestamp", trashed[0].IsTrashed, trashed[0].TrashedAt)
	}

	env.clock.Advance(time.Second)
	res, err := env.mgr.RestoreFromTrash(ctx, "u1", it.ID)
	if err != nil {
		t.Fatalf("RestoreFromTrash() error = %v", err)
	}
	if !res.Restored {
		t.Error("Restored = false, want true")
	}

	// Restore returns the item to its pre-trash visible state: trash fields
	// cleared, everything else unchanged.
	state, _ := env.mgr.GetItems(ctx, "u1")
	got := state.Items[0]
	if got.IsTrashed || got.TrashedAt != 0 {
		t.Errorf("trash fields after restore = trashed:%v at:%d, want cleared", got.IsTrashed, got.TrashedAt)
	}
	if got.Name != "photo" || got.FileSize != 100 || !got.IsPublic {
		t.Errorf("restore changed item fields: %+v", got)
	}
}

func TestRestoreNonTrashedIsNoOp(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	it, _ := env.mgr.CreateItem(ctx, "u1", CreateItemInput{Name: "active"})

	res, err := env.mgr.RestoreFromTrash(ctx, "u1", it.ID)
	if err != nil {
		t.Fatalf("RestoreFromTrash() error = %v", err)
	}
	if res.Restored {
		t.Error("restoring an active item should be a no-op")
	}

	if _, err = env.mgr.RestoreFromTrash(ctx, "u1", "no-such-item"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RestoreFromTrash(missing) error = %v, want ErrNotFound", err)
	}
}

func TestEmptyTrash(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	keep, _ := env.mgr.CreateItem(ctx, "u1", CreateItemInput{Name: "keep", BlobKey: "blob-keep"})
	gone1, _ := env.mgr.CreateItem(ctx, "u1", CreateItemInput{Name: "gone1", BlobKey: "blob-1"})
	gone2, _ := env.mgr.CreateItem(ctx, "u1", CreateItemInput{Name: "gone2"})

	trashItem(t, env, "u1", gone1.ID, true)
	trashItem(t, env, "u1", gone2.ID, true)

	res, err := env.mgr.EmptyTrash(ctx, "u1")
	if err != nil {
		t.Fatalf("EmptyTrash() error = %v", err)
	}
	if res.Deleted != 2 {
		t.Errorf("Deleted = %d, want 2", res.Deleted)
	}
	if len(res.BlobKeys) != 1 || res.BlobKeys[0] != "blob-1" {
		t.Errorf("BlobKeys = %v, want [blob-1]", res.BlobKeys)
	}

	// Active items are unaffected; trashed items are gone from the store.
	state, _ := env.mgr.GetItems(ctx, "u1")
	if len(state.Items) != 1 || state.Items[0].ID != keep.ID {
		t.Errorf("remaining items = %+v, want only the active one", state.Items)
	}
}

func TestCleanupExpiredTrash(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	old, _ := env.mgr.CreateItem(ctx, "u1", CreateItemInput{Name: "old", BlobKey: "blob-old"})
	recent, _ := env.mgr.CreateItem(ctx, "u1", CreateItemInput{Name: "recent"})

	trashItem(t, env, "u1", old.ID, true)
	env.clock.Advance(31 * 24 * time.Hour)
	trashItem(t, env, "u1", recent.ID, true)

	res, err := env.mgr.CleanupExpiredTrash(ctx, "u1")
	if err != nil {
		t.Fatalf("CleanupExpiredTrash() error = %v", err)
	}
	if res.Deleted != 1 {
		t.Errorf("Deleted = %d, want 1 (only past retention)", res.Deleted)
	}
	if len(res.BlobKeys) != 1 || res.BlobKeys[0] != "blob-old" {
		t.Errorf("BlobKeys = %v, want [blob-old]", res.BlobKeys)
	}

	trashed, _ := env.mgr.ListTrash(ctx, "u1")
	if len(trashed) != 1 || trashed[0].ID != recent.ID {
		t.Errorf("remaining trash = %+v, want only the recent item", trashed)
	}

	// Idempotence: an immediate second sweep deletes nothing.
	res, err = env.mgr.CleanupExpiredTrash(ctx, "u1")
	if err != nil {
		t.Fatalf("second CleanupExpiredTrash() error = %v", err)
	}
	if res.Deleted != 0 {
		t.Errorf("second sweep Deleted = %d, want 0", res.Deleted)
	}
}

func TestCleanupRespectsConfiguredRetention(t *testing.T) {
	env := newTestEnv(t, Config{TrashRetention: time.Hour})
	ctx := context.Background()

	it, _ := env.mgr.CreateItem(ctx, "u1", CreateItemInput{Name: "short-lived"})
	trashItem(t, env, "u1", it.ID, true)

	env.clock.Advance(59 * time.Minute)
	res, _ := env.mgr.CleanupExpiredTrash(ctx, "u1")
	if res.Deleted != 0 {
		t.Errorf("Deleted = %d before retention elapsed, want 0", res.Deleted)
	}

	env.clock.Advance(2 * time.Minute)
	res, _ = env.mgr.CleanupExpiredTrash(ctx, "u1")
	if res.Deleted != 1 {
		t.Errorf("Deleted = %d after retention elapsed, want 1", res.Deleted)
	}
}

func TestCleanupSparesItemAtExactRetentionAge(t *testing.T) {
	env := newTestEnv(t, Config{TrashRetention: time.Hour})
	ctx := context.Background()

	it, _ := env.mgr.CreateItem(ctx, "u1", CreateItemInput{Name: "edge"})
	trashItem(t, env, "u1", it.ID, true)

	// The sweep destroys items trashed longer ago than the retention
	// window; an item aged exactly the window is not yet past it.
	env.clock.Advance(time.Hour)
	res, _ := env.mgr.CleanupExpiredTrash(ctx, "u1")
	if res.Deleted != 0 {
		t.Errorf("Deleted = %d at exact retention age, want 0", res.Deleted)
	}

	env.clock.Advance(time.Millisecond)
	res, _ = env.mgr.CleanupExpiredTrash(ctx, "u1")
	if res.Deleted != 1 {
		t.Errorf("Deleted = %d one tick past retention, want 1", res.Deleted)
	}
}

// The end-to-end lifecycle scenario: quota tracks trash state, empty-trash
// spares active items, and destruction reports the orphaned blob key.
func TestItemLifecycleScenario(t *testing.T) {
	env := newTestEnv(t, Config{})
	ctx := context.Background()

	a, err := env.mgr.CreateItem(ctx, "u1", CreateItemInput{
		Name: "big", Type: "video", FileSize: 5_000_000, BlobKey: "blob-a", IsPublic: true,
	})
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}

	quota, _ := env.mgr.GetQuota(ctx, "u1")
	if quota.Used != 5_000_000 {
		t.Errorf("Used = %d, want 5000000", quota.Used)
	}

	// Trashed items stop counting against quota.
	trashItem(t, env, "u1", a.ID, true)
	quota, _ = env.mgr.GetQuota(ctx, "u1")
	if quota.Used != 0 {
		t.Errorf("Used = %d after trash, want 0", quota.Used)
	}

	// Restore brings the usage back.
	if _, err := env.mgr.RestoreFromTrash(ctx, "u1", a.ID); err != nil {
		t.Fatalf("RestoreFromTrash() error = %v", err)
	}
	quota, _ = env.mgr.GetQuota(ctx, "u1")
	if quota.Used != 5_000_000 {
		t.Errorf("Used = %d after restore, want 5000000", quota.Used)
	}

	// Emptying the trash while the item is active leaves it alone.
	res, _ := env.mgr.EmptyTrash(ctx, "u1")
	if res.Deleted != 0 {
		t.Errorf("EmptyTrash deleted %d active items, want 0", res.Deleted)
	}

	// Trash then empty: the item is destroyed and its blob key reported.
	trashItem(t, env, "u1", a.ID, true)
	res, _ = env.mgr.EmptyTrash(ctx, "u1")
	if res.Deleted != 1 || len(res.BlobKeys) != 1 || res.BlobKeys[0] != "blob-a" {
		t.Errorf("EmptyTrash = %+v, want 1 deletion with blob-a", res)
	}

	state, _ := env.mgr.GetItems(ctx, "u1")
	if len(state.Items) != 0 {
		t.Errorf("items after destruction = %+v, want none", state.Items)
	}
}
