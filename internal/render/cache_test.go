package render

import (
	"bytes"
	"testing"
)

func TestCache_Disabled(t *testing.T) {
	c, err := OpenCache("", 0)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer c.Close()

	if c.Enabled() {
		t.Fatal("cache with empty dir should be disabled")
	}
	if err := c.Store("k", []byte("data")); err != nil {
		t.Fatalf("Store on disabled cache: %v", err)
	}
	if _, ok := c.Lookup("k"); ok {
		t.Fatal("disabled cache should always miss")
	}

	// A nil cache behaves the same.
	var nilCache *AssetCache
	if nilCache.Enabled() {
		t.Fatal("nil cache should be disabled")
	}
	if _, ok := nilCache.Lookup("k"); ok {
		t.Fatal("nil cache should always miss")
	}
}

func TestCache_StoreAndLookup(t *testing.T) {
	c, err := OpenCache(t.TempDir(), 16)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer c.Close()

	wav := EncodeWAV(make([]float64, 100), 1, 44100)
	if err := c.Store("abc123", wav); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, ok := c.Lookup("abc123")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !bytes.Equal(got, wav) {
		t.Fatal("cached bytes differ from stored bytes")
	}

	if _, ok := c.Lookup("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestCache_EvictsWhenOverBudget(t *testing.T) {
	// 1 MB budget, ~0.6 MB assets: storing two must evict the first.
	c, err := OpenCache(t.TempDir(), 1)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	defer c.Close()

	big := make([]byte, 600*1024)
	if err := c.Store("first", big); err != nil {
		t.Fatalf("Store first: %v", err)
	}
	if err := c.Store("second", big); err != nil {
		t.Fatalf("Store second: %v", err)
	}

	if _, ok := c.Lookup("first"); ok {
		t.Fatal("expected first asset to be evicted")
	}
	if _, ok := c.Lookup("second"); !ok {
		t.Fatal("expected second asset to survive")
	}
}
