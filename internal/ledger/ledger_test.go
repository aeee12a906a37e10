package ledger_test

import (
	"context"
	"path/filepath"
	"testing"

	"gazette/internal/ledger"
)

func openStore(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMarkNewClaimsOnce(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	fresh, err := store.MarkNew(ctx, "https://example.com/articles/1")
	if err != nil {
		t.Fatalf("MarkNew failed: %v", err)
	}
	if !fresh {
		t.Fatal("expected first claim to report new")
	}

	again, err := store.MarkNew(ctx, "https://example.com/articles/1")
	if err != nil {
		t.Fatalf("second MarkNew failed: %v", err)
	}
	if again {
		t.Fatal("expected second claim to report already seen")
	}
}

func TestAcceptIsIdempotent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Accept(ctx, "https://example.com/articles/2"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if err := store.Accept(ctx, "https://example.com/articles/2"); err != nil {
		t.Fatalf("repeat Accept failed: %v", err)
	}

	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one entry after double accept, got %d", len(entries))
	}
	if entries[0].Identifier != "https://example.com/articles/2" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
	if entries[0].DiscoveredAt.IsZero() {
		t.Fatal("expected discovery timestamp to be recorded")
	}
}

func TestIsNewReflectsAcceptance(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	isNew, err := store.IsNew(ctx, "https://example.com/articles/3")
	if err != nil {
		t.Fatalf("IsNew failed: %v", err)
	}
	if !isNew {
		t.Fatal("expected unseen identifier to be new")
	}

	if err := store.Accept(ctx, "https://example.com/articles/3"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	isNew, err = store.IsNew(ctx, "https://example.com/articles/3")
	if err != nil {
		t.Fatalf("IsNew after accept failed: %v", err)
	}
	if isNew {
		t.Fatal("expected accepted identifier to no longer be new")
	}
}

func TestMarkNewRejectsEmptyIdentifier(t *testing.T) {
	store := openStore(t)
	if _, err := store.MarkNew(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank identifier")
	}
}

func TestStatsAndHealth(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Accept(ctx, "https://example.com/"+id); err != nil {
			t.Fatalf("Accept failed: %v", err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("expected 3 entries, got %d", stats.Total)
	}
	if stats.Oldest.IsZero() || stats.Newest.Before(stats.Oldest) {
		t.Fatalf("unexpected stats range: %+v", stats)
	}

	health, err := store.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("unexpected health: %+v", health)
	}
	if health.TotalEntries != 3 {
		t.Fatalf("expected 3 entries in health, got %d", health.TotalEntries)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
}

func TestOpenSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	store, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Accept(ctx, "https://example.com/persisted"); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	isNew, err := reopened.IsNew(ctx, "https://example.com/persisted")
	if err != nil {
		t.Fatalf("IsNew failed: %v", err)
	}
	if isNew {
		t.Fatal("expected entry to persist across reopen")
	}
}
