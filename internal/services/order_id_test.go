package services

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestGenerateOrderIDFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	id := GenerateOrderID(now)

	pattern := regexp.MustCompile(`^SF-20260314-\d{5}$`)
	if !pattern.MatchString(id) {
		t.Fatalf("GenerateOrderID() = %q, want match for %q", id, pattern)
	}
}

func TestGenerateOrderIDUsesUTCDate(t *testing.T) {
	t.Parallel()

	// 23:30 in UTC+7 is the previous day in UTC.
	loc := time.FixedZone("UTC+7", 7*3600)
	now := time.Date(2026, 3, 15, 1, 30, 0, 0, loc)

	id := GenerateOrderID(now)
	if !strings.HasPrefix(id, "SF-20260314-") {
		t.Fatalf("GenerateOrderID() = %q, want SF-20260314- prefix", id)
	}
}

func TestGenerateOrderIDVaries(t *testing.T) {
	t.Parallel()

	now := time.Now()
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		seen[GenerateOrderID(now)] = struct{}{}
	}

	// Statistical, not guaranteed: 100 draws from 90k values collide on
	// every draw with negligible probability.
	if len(seen) < 2 {
		t.Fatalf("expected distinct order IDs, got %d unique out of 100", len(seen))
	}
}
