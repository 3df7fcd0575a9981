package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// GenerateReceiptNo builds a receipt number from the print date and a random suffix,
// e.g. "RC-20240315-1A2B3C4D".
func GenerateReceiptNo(at time.Time) string {
	return "RC-" + at.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}
