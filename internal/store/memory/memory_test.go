package memory

import (
	"context"
	"testing"
)

func TestSetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected absent key to report (false, nil), got ok=%t err=%v", ok, err)
	}

	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || value != "v" {
		t.Fatalf("expected (v, true, nil), got (%q, %t, %v)", value, ok, err)
	}

	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected key gone after remove")
	}

	// removing an absent key is fine
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove of absent key must not error, got %v", err)
	}
}
