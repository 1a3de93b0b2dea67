package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

// orderNumberAlphabet is the base-36 character set for the random
// order-number suffix.
const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// orderNumberAttempts bounds the collision retry loop. Uniqueness is
// enforced by the database constraint, not by construction.
const orderNumberAttempts = 3

// generateOrderNumber produces a human-readable order identifier of the
// form ORD-YYYYMMDD-XXXX with a 4-character random suffix.
func generateOrderNumber(now time.Time) (string, error) {
	random := make([]byte, 4)
	if _, err := rand.Read(random); err != nil {
		return "", fmt.Errorf("failed to generate order number suffix: %w", err)
	}

	suffix := make([]byte, 4)
	for i, b := range random {
		suffix[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}

	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix), nil
}
