package entity

import (
	"time"
)

// IdempotencyKey caches the response of a processed payment request so a
// retried request replays it instead of charging twice
type IdempotencyKey struct {
	Key          string    // The idempotency key from client
	Endpoint     string    // API endpoint (e.g., "POST /api/v1/kiosk/payment/process")
	ResponseCode int       // HTTP status code of original response
	ResponseBody string    // JSON response body (cached)
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
