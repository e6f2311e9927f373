package orders

import (
	"crypto/rand"
	"time"
)

const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewNumber returns a human-facing order number like ORD-20261019-7KQ2MX.
func NewNumber(now time.Time) string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = numberAlphabet[int(b[i])%len(numberAlphabet)]
	}
	return "ORD-" + now.UTC().Format("20060102") + "-" + string(b)
}
