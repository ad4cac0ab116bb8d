package uidstress

import (
	"context"
	"testing"
)

func TestRunSmallScale(t *testing.T) {
	cfg := Config{
		Schemes:   []string{"ulidlite"},
		Scale:     5000,
		ChunkSize: 1000,
		TempDir:   t.TempDir(),
		Verify:    true,
	}

	results, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	res := results[0]
	if res.Scheme != "ulidlite" {
		t.Fatalf("scheme = %q", res.Scheme)
	}
	if res.Chunks != 5 {
		t.Fatalf("chunks = %d, want 5", res.Chunks)
	}
	if res.Generated != 5000 {
		t.Fatalf("generated = %d, want 5000", res.Generated)
	}
	if res.Unique != 5000 || res.Duplicates != 0 {
		t.Fatalf("unique = %d, duplicates = %d; monotonic scheme must not collide", res.Unique, res.Duplicates)
	}
}

func TestRunUnknownScheme(t *testing.T) {
	cfg := Config{
		Schemes:   []string{"snowflake"},
		Scale:     10,
		ChunkSize: 10,
		TempDir:   t.TempDir(),
	}
	if _, err := Run(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown scheme")
	}
}

func TestRunRejectsNonPositiveScale(t *testing.T) {
	if _, err := Run(context.Background(), Config{Schemes: []string{"ulidlite"}}); err == nil {
		t.Fatalf("expected error for zero scale")
	}
}
