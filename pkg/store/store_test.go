package store

import (
	"context"
	"testing"
	"time"

	"github.com/raonyguimaraes/skater/pkg/interpret"
)

func testScores() interpret.Importances {
	return interpret.Importances{
		{Feature: "x1", Importance: 0.25},
		{Feature: "x0", Importance: 0.75},
	}
}

func TestNewExplanation(t *testing.T) {
	rec := New("iris.csv", testScores(), time.Hour)

	if rec.ID == "" {
		t.Error("New() did not assign an ID")
	}
	if rec.Dataset != "iris.csv" {
		t.Errorf("Dataset = %q", rec.Dataset)
	}
	if rec.IsExpired() {
		t.Error("fresh record reports expired")
	}
	if rec.ExpiresAt.Before(rec.CreatedAt) {
		t.Error("ExpiresAt before CreatedAt")
	}

	other := New("iris.csv", testScores(), time.Hour)
	if other.ID == rec.ID {
		t.Error("two records share an ID")
	}

	forever := New("x", testScores(), 0)
	if !forever.ExpiresAt.IsZero() {
		t.Error("zero TTL should mean no expiry")
	}
	if forever.IsExpired() {
		t.Error("record without expiry reports expired")
	}
}

// storeUnderTest runs the shared Store contract against a backend.
func storeUnderTest(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	rec := New("data.csv", testScores(), time.Hour)
	if err := st.Set(ctx, rec); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := st.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil for stored record")
	}
	if got.ID != rec.ID || len(got.Scores) != 2 {
		t.Errorf("Get() = %+v", got)
	}

	// Missing record reads as nil, nil
	missing, err := st.Get(ctx, "no-such-id")
	if err != nil || missing != nil {
		t.Errorf("Get(missing) = %v, %v; want nil, nil", missing, err)
	}

	// Expired record reads as nil, nil
	expired := New("old.csv", testScores(), time.Hour)
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	if err := st.Set(ctx, expired); err != nil {
		t.Fatal(err)
	}
	got, err = st.Get(ctx, expired.ID)
	if err != nil || got != nil {
		t.Errorf("Get(expired) = %v, %v; want nil, nil", got, err)
	}

	// Delete
	if err := st.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got, _ := st.Get(ctx, rec.ID); got != nil {
		t.Error("Get() after Delete() returned a record")
	}

	// Cleanup leaves live records alone
	live := New("live.csv", testScores(), time.Hour)
	if err := st.Set(ctx, live); err != nil {
		t.Fatal(err)
	}
	if err := st.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if got, _ := st.Get(ctx, live.ID); got == nil {
		t.Error("Cleanup() removed a live record")
	}
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	storeUnderTest(t, st)
}

func TestFileStoreCleanupRemovesExpiredFiles(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	expired := New("old.csv", testScores(), time.Hour)
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	if err := st.Set(ctx, expired); err != nil {
		t.Fatal(err)
	}

	if err := st.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}

	// After cleanup even the raw file is gone, so a freshly written record
	// with the same ID would not resurrect stale scores.
	if got, _ := st.Get(ctx, expired.ID); got != nil {
		t.Error("expired record survived Cleanup()")
	}
}
