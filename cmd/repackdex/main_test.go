package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"repackdex/internal/catalog"
)

func TestRankByCloseness(t *testing.T) {
	games := []catalog.Game{
		{Title: "Grand Alpha Collection", CleanName: "Grand Alpha Collection"},
		{Title: "Alpha", CleanName: "Alpha"},
		{Title: "Alphabet Soup", CleanName: "Alphabet Soup"},
	}

	ranked := rankByCloseness("alpha", games)
	if len(ranked) != 3 {
		t.Fatalf("expected all candidates kept, got %d", len(ranked))
	}
	if ranked[0].Title != "Alpha" {
		t.Fatalf("expected exact match first, got %q", ranked[0].Title)
	}
}

func TestRankByClosenessKeepsNonMatches(t *testing.T) {
	games := []catalog.Game{
		{Title: "Zebra", CleanName: "Zebra"},
		{Title: "Alpha", CleanName: "Alpha"},
	}
	ranked := rankByCloseness("alpha", games)
	if len(ranked) != 2 {
		t.Fatalf("expected non-matching rows appended, got %d", len(ranked))
	}
	if ranked[0].Title != "Alpha" {
		t.Fatalf("expected match first, got %q", ranked[0].Title)
	}
}

func TestConfigInitValidatePrint(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := run(ctx, []string{"config", "init", "--config", path}); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config written: %v", err)
	}
	if err := run(ctx, []string{"config", "init", "--config", path}); err == nil {
		t.Fatal("expected second init to refuse overwriting")
	}
	if err := run(ctx, []string{"config", "validate", "--config", path}); err != nil {
		t.Fatalf("config validate: %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	if err := run(context.Background(), []string{"bogus"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
