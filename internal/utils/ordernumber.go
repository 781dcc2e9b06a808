package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Uppercase base36 alphabet for the random order suffix.
const orderAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Length of the random suffix. Combined with the millisecond timestamp
// this makes collisions vanishingly unlikely; the unique index on
// tickets.order_number backstops the remainder.
const orderSuffixLen = 9

// NewOrderNumber returns a human-legible, globally unique order token
// of the form ORD-<unix-ms>-<9 random uppercase characters>. The token
// groups all tickets of one purchase and serves as an idempotency key,
// so uniqueness is a correctness requirement rather than cosmetics.
func NewOrderNumber() (string, error) {
	buf := make([]byte, orderSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = orderAlphabet[int(b)%len(orderAlphabet)]
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UTC().UnixMilli(), string(buf)), nil
}
