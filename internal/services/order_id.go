package services

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateOrderID produces a human-readable order identifier of the form
// SF-YYYYMMDD-NNNNN, unique with overwhelming probability across concurrent
// callers without coordination. There is no persistence check: at expected
// order volumes the 90k daily combinations make a collision negligible.
func GenerateOrderID(now time.Time) string {
	return fmt.Sprintf("SF-%s-%d", now.UTC().Format("20060102"), 10000+rand.IntN(90000))
}
