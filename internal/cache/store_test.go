package cache

import (
	"testing"
	"time"
)

func TestStoreMemoryFirst(t *testing.T) {
	s := NewStore(10, time.Hour, t.TempDir())

	s.Put("k1", textRecord("v1"))

	got := s.Get("k1")
	if got == nil || got.Text.Content != "v1" {
		t.Fatal("expected a hit from the store")
	}
}

func TestStoreDiskPromotion(t *testing.T) {
	s := NewStore(10, time.Hour, t.TempDir())

	s.Put("k1", textRecord("v1"))

	// Drop the memory tier so the next read must come from disk.
	s.memory.Clear()
	if s.memory.Len() != 0 {
		t.Fatal("memory tier not cleared")
	}

	got := s.Get("k1")
	if got == nil {
		t.Fatal("expected a disk hit")
	}

	// The disk hit should have been promoted back into memory.
	if s.memory.Len() != 1 {
		t.Error("disk hit was not promoted to the memory tier")
	}
	if s.memory.Get("k1") == nil {
		t.Error("promoted entry not readable from memory")
	}
}

func TestStoreWithoutDiskTier(t *testing.T) {
	s := NewStore(10, time.Hour, "")

	s.Put("k1", textRecord("v1"))
	if s.Get("k1") == nil {
		t.Error("memory-only store should still hit")
	}

	stats := s.Stats()
	if stats.DiskEnabled {
		t.Error("disk tier should be disabled for an empty cache dir")
	}
	if stats.MemoryEntries != 1 {
		t.Errorf("memory entries = %d, want 1", stats.MemoryEntries)
	}
}

func TestStoreClearMemoryOnly(t *testing.T) {
	s := NewStore(10, time.Hour, t.TempDir())
	s.Put("k1", textRecord("v1"))

	s.Clear(true)

	if s.memory.Len() != 0 {
		t.Error("memory tier not cleared")
	}
	if count, _ := s.disk.Stats(); count != 1 {
		t.Error("memory-only clear touched the disk tier")
	}

	// The entry is still reachable through the disk tier.
	if s.Get("k1") == nil {
		t.Error("disk entry lost after memory-only clear")
	}

	s.Clear(false)
	if count, _ := s.disk.Stats(); count != 0 {
		t.Error("full clear left disk entries behind")
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(10, time.Hour, t.TempDir())
	s.Put("k1", textRecord("v1"))

	s.Delete("k1")
	if s.Get("k1") != nil {
		t.Error("deleted key still reachable")
	}
}
