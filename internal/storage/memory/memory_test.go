package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Set(ctx, "b", []byte("2")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(ctx, "a")
	if err != nil || !ok || string(v) != "1" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}

	keys, _ := s.Keys(ctx)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("Keys = %v", keys)
	}

	_ = s.Delete(ctx, "a")
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatal("expected a to be deleted")
	}
}

func TestNewFromDirSeeds(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("revenues.json", `[{"id":"r1"}]`)
	mustWrite("notes.txt", "ignored")

	s := NewFromDir(dir)
	v, ok, _ := s.Get(context.Background(), "revenues")
	if !ok || string(v) != `[{"id":"r1"}]` {
		t.Fatalf("expected seeded revenues, got %q", v)
	}
	keys, _ := s.Keys(context.Background())
	if len(keys) != 1 {
		t.Fatalf("expected only json files to be seeded, got %v", keys)
	}

	if empty := NewFromDir(filepath.Join(dir, "missing")); empty == nil {
		t.Fatal("expected empty store for missing directory")
	}
}
