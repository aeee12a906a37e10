package testsupport

import (
	"context"
	"testing"

	"gazette/internal/config"
	"gazette/internal/ledger"
)

// MustOpenLedger opens a ledger.Store for tests and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustAccept records an identifier in the ledger, failing the test on error.
func MustAccept(t testing.TB, store *ledger.Store, identifier string) {
	t.Helper()

	if err := store.Accept(context.Background(), identifier); err != nil {
		t.Fatalf("store.Accept(%q): %v", identifier, err)
	}
}
