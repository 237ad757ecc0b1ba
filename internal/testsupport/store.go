package testsupport

import (
	"testing"

	"framefix/internal/config"
	"framefix/internal/store"
)

// MustOpenStore opens a store.Store at the configured path and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
