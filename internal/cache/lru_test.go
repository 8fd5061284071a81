package cache

import (
	"fmt"
	"testing"
	"time"
)

func newTestCache(t *testing.T, defaultTTL time.Duration) *LRUCache {
	t.Helper()
	c, err := NewLRU(10, 100, defaultTTL)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestLRUCache_SetAndGet(t *testing.T) {
	c := newTestCache(t, time.Minute)

	value := []byte(`[{"id":1,"fact":"Cats sleep a lot.","length":17}]`)
	c.Set("random_fact_pool", value, 0)

	got, found := c.Get("random_fact_pool")
	if !found {
		t.Fatal("expected to find cached value")
	}
	if string(got) != string(value) {
		t.Errorf("got %q, want %q", got, value)
	}
}

func TestLRUCache_GetNonExistent(t *testing.T) {
	c := newTestCache(t, time.Minute)

	if _, found := c.Get("nonexistent"); found {
		t.Error("expected miss for key that was never set")
	}
}

func TestLRUCache_Expiration(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("expiring", []byte("v"), 100*time.Millisecond)

	if _, found := c.Get("expiring"); !found {
		t.Fatal("expected hit immediately after set")
	}

	time.Sleep(150 * time.Millisecond)

	if _, found := c.Get("expiring"); found {
		t.Error("expected entry to expire")
	}
}

func TestLRUCache_DefaultTTL(t *testing.T) {
	c := newTestCache(t, 100*time.Millisecond)

	// Zero TTL falls back to the cache default.
	c.Set("k", []byte("v"), 0)

	time.Sleep(150 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("expected entry set with zero TTL to expire at the default TTL")
	}
}

func TestLRUCache_SetOverwrites(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("k", []byte("first"), 0)
	c.Set("k", []byte("second"), 0)

	got, found := c.Get("k")
	if !found {
		t.Fatal("expected to find overwritten value")
	}
	if string(got) != "second" {
		t.Errorf("got %q, want %q", got, "second")
	}
}

func TestLRUCache_Delete(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("k", []byte("v"), 0)
	c.Delete("k")

	if _, found := c.Get("k"); found {
		t.Error("expected deleted key to be absent")
	}
}

func TestLRUCache_Clear(t *testing.T) {
	c := newTestCache(t, time.Minute)

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("key-%d", i), []byte("v"), 0)
	}
	c.Clear()

	for i := 0; i < 10; i++ {
		if _, found := c.Get(fmt.Sprintf("key-%d", i)); found {
			t.Errorf("expected key-%d to be cleared", i)
		}
	}
}

func TestLRUCache_StatsCounters(t *testing.T) {
	c := newTestCache(t, time.Minute)

	c.Set("k", []byte("v"), 0)
	c.Get("k")
	c.Get("absent")

	stats := c.Stats()
	if stats.Hits == 0 {
		t.Error("expected at least one recorded hit")
	}
	if stats.Misses == 0 {
		t.Error("expected at least one recorded miss")
	}
	if stats.KeysAdded == 0 {
		t.Error("expected KeysAdded to be tracked")
	}
}
