package otp

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "ann@example.com", "123456", 15*time.Minute); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	code, ok, err := s.Get(ctx, "ann@example.com")
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if code != "123456" {
		t.Fatalf("expected 123456, got %q", code)
	}
}

func TestMemoryStore_MissingKey(t *testing.T) {
	s := NewMemoryStore()
	_, ok, err := s.Get(context.Background(), "ghost@example.com")
	if err != nil || ok {
		t.Fatalf("expected a clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryStore_ExpiryIndistinguishableFromAbsence(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Now()
	s.now = func() time.Time { return base }
	_ = s.Put(ctx, "ann@example.com", "123456", 15*time.Minute)

	s.now = func() time.Time { return base.Add(16 * time.Minute) }
	_, ok, err := s.Get(ctx, "ann@example.com")
	if err != nil || ok {
		t.Fatalf("expected expired entry to read as absent, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_ = s.Put(ctx, "ann@example.com", "111111", 15*time.Minute)
	_ = s.Put(ctx, "ann@example.com", "222222", 15*time.Minute)

	code, ok, _ := s.Get(ctx, "ann@example.com")
	if !ok || code != "222222" {
		t.Fatalf("expected the newest code, got ok=%v code=%q", ok, code)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_ = s.Put(ctx, "ann@example.com", "123456", 15*time.Minute)
	_ = s.Delete(ctx, "ann@example.com")

	if _, ok, _ := s.Get(ctx, "ann@example.com"); ok {
		t.Fatalf("expected the entry to be gone")
	}
}
