package cache

import (
	"path/filepath"
	"testing"
	"time"
)

func TestEmbeddingKey_SeparatesModels(t *testing.T) {
	if EmbeddingKey("a", "impôts") == EmbeddingKey("b", "impôts") {
		t.Error("expected different keys for different models")
	}
	if EmbeddingKey("a", "impôts") != EmbeddingKey("a", "impôts") {
		t.Error("expected stable keys")
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if v, ok := c.Get("k"); !ok || string(v) != "v" {
		t.Errorf("expected v, got %q (found=%v)", v, ok)
	}
	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	if err := c.Set("fresh", []byte("1"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := c.Set("stale", []byte("2"), -time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if _, ok := c.Get("fresh"); !ok {
		t.Error("expected fresh entry")
	}
	if _, ok := c.Get("stale"); ok {
		t.Error("expected stale entry to expire")
	}
	if err := c.Delete("missing"); err != nil {
		t.Errorf("expected deleting a missing key to succeed, got %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "emb")
	disk := NewDiskCache(dir, time.Hour)
	if err := disk.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Hour)
	if v, ok := layered.Get("k"); !ok || string(v) != "v" {
		t.Fatalf("expected disk hit, got %q (found=%v)", v, ok)
	}
	if _, ok := layered.memory.Get("k"); !ok {
		t.Error("expected disk hit to be promoted to memory")
	}
}

func TestVectorCache_RoundTrip(t *testing.T) {
	vc := NewVectorCache(NewMemoryCache(time.Minute, time.Minute), "m", 0)
	vec := []float64{0.25, -1.5, 3}

	if err := vc.Set("texte", vec); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, ok := vc.Get("texte")
	if !ok {
		t.Fatal("expected cached vector")
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("index %d: expected %v, got %v", i, vec[i], got[i])
		}
	}
	if _, err := DecodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated vector")
	}
}
