package cache

import (
	"testing"
	"time"
)

func TestMemCache_SetGetDelete(t *testing.T) {
	m := NewMemCache(0)
	defer m.Close()

	m.Set("k", int64(7), 0)
	v, ok := m.Get("k")
	if !ok || v.(int64) != 7 {
		t.Fatalf("Get = %v/%v, want 7/true", v, ok)
	}

	m.Delete("k")
	if _, ok := m.Get("k"); ok {
		t.Fatalf("key survived Delete")
	}
}

func TestMemCache_TTLExpiry(t *testing.T) {
	m := NewMemCache(0)
	defer m.Close()

	m.Set("k", "v", 10*time.Millisecond)
	if !m.Exists("k") {
		t.Fatalf("key missing before expiry")
	}

	time.Sleep(20 * time.Millisecond)
	if m.Exists("k") {
		t.Fatalf("key alive past TTL")
	}
}

func TestMemCache_Flush(t *testing.T) {
	m := NewMemCache(0)
	defer m.Close()

	m.Set("a", 1, 0)
	m.Set("b", 2, 0)
	m.Flush()

	if m.Exists("a") || m.Exists("b") {
		t.Fatalf("keys survived Flush")
	}
}
