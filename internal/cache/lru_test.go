package cache

import (
	"testing"
	"time"
)

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[[]byte](2, time.Minute)
	c.Set("revenues", []byte("a"))
	c.Set("expenses", []byte("b"))

	// touch revenues so expenses becomes the eviction candidate
	if _, ok := c.Get("revenues"); !ok {
		t.Fatal("expected revenues to be cached")
	}
	c.Set("goals", []byte("c"))

	if _, ok := c.Get("expenses"); ok {
		t.Error("expected expenses to be evicted")
	}
	if _, ok := c.Get("revenues"); !ok {
		t.Error("expected revenues to survive")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("settings", "v1")
	c.Set("user_profile", "v2")

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("settings"); ok {
		t.Error("expected settings to be expired")
	}
	if removed := c.CleanExpired(); removed != 1 {
		t.Errorf("CleanExpired() = %d, want 1", removed)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestLRUCacheDeleteAndPurge(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be deleted")
	}
	c.Purge()
	if c.Size() != 0 {
		t.Errorf("Size() after purge = %d", c.Size())
	}
}

func TestLRUCacheDisabled(t *testing.T) {
	c := NewLRUCache[int](0, time.Minute)
	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Error("zero-size cache should not store entries")
	}
}

func TestManagerSweep(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](10, time.Second)
	c.now = func() time.Time { return now }
	c.Set("a", 1)

	m := NewManager(nil)
	m.Register(c)
	m.Register(nil)

	now = now.Add(time.Minute)
	if got := m.Sweep(); got != 1 {
		t.Fatalf("Sweep() = %d, want 1", got)
	}

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}
