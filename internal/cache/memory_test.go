package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryProviderRoundTrip(t *testing.T) {
	t.Parallel()

	provider, err := NewMemoryProvider()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ctx := context.Background()

	if err := provider.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := provider.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "v" {
		t.Fatalf("Get = %q, want v", got)
	}

	if err := provider.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := provider.Get(ctx, "k"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryProviderExpiry(t *testing.T) {
	t.Parallel()

	provider, err := NewMemoryProvider()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ctx := context.Background()

	if err := provider.Set(ctx, "k", "v", -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := provider.Get(ctx, "k"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for expired key, got %v", err)
	}
}

func TestNewProviderRejectsUnknown(t *testing.T) {
	t.Parallel()

	if _, err := NewProvider(Config{Provider: "memcached"}); err == nil {
		t.Fatalf("expected error for unsupported provider")
	}
}

func TestDeliveryKey(t *testing.T) {
	t.Parallel()

	got := DeliveryKey("accu360", "order.updated", "SAL-ORD-00099", "2026-03-14T09:30:00Z")
	want := "webhook:accu360:order.updated:SAL-ORD-00099:2026-03-14T09:30:00Z"
	if got != want {
		t.Fatalf("DeliveryKey = %q, want %q", got, want)
	}
}
