package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New(4, 0)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok || v.(int) != 1 {
		t.Fatalf("expected hit with 1, got %v %v", v, ok)
	}

	c.Set("a", 2)
	v, _ = c.Get("a")
	if v.(int) != 2 {
		t.Fatalf("expected refreshed value 2, got %v", v)
	}
}

func TestEviction_LeastRecentlyUsed(t *testing.T) {
	c := New(2, 0)
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch a so b becomes the eviction candidate.
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("expected c to be present")
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Fatalf("expected 1 eviction, got %d", got)
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New(4, 10*time.Millisecond)
	c.Set("a", 1)

	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss after ttl")
	}
	if c.Stats().Size != 0 {
		t.Fatal("expected expired entry to be dropped")
	}
}

func TestInvalidate(t *testing.T) {
	c := New(8, 0)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	c.Invalidate()

	if c.Stats().Size != 0 {
		t.Fatal("expected empty cache after invalidation")
	}
	if _, ok := c.Get("k0"); ok {
		t.Fatal("expected miss after invalidation")
	}
	if got := c.Stats().Invalidations; got != 1 {
		t.Fatalf("expected 1 invalidation, got %d", got)
	}
}

func TestStatsCounters(t *testing.T) {
	c := New(4, 0)
	c.Set("a", 1)
	c.Get("a")
	c.Get("nope")

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Size != 1 || s.Capacity != 4 {
		t.Fatalf("unexpected stats %+v", s)
	}
}
