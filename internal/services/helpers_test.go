package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage/memory"
)

func testLogger() *log.Logger {
	return log.New(log.Config{
		Handler: slog.NewTextHandler(io.Discard, nil),
	})
}

// seededStore returns a memory store with the category catalog loaded.
func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	if _, err := store.SeedCategories(context.Background(), core.Catalog); err != nil {
		t.Fatalf("seed categories: %v", err)
	}
	return store
}

func mustCategory(t *testing.T, store *memory.Store, name string) core.Category {
	t.Helper()
	c, err := store.GetCategoryByName(context.Background(), name)
	if err != nil {
		t.Fatalf("get category %q: %v", name, err)
	}
	return c
}
