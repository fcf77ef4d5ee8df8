package common

import (
	"crypto/rand"
	"fmt"
)

// randRead is swapped in tests to simulate an exhausted entropy source.
var randRead = rand.Read

// RandomBytes returns size bytes from the system CSPRNG.
func RandomBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := randRead(b); err != nil {
		return nil, fmt.Errorf("random source error: %w", err)
	}
	return b, nil
}

// Wipe zeroes b in place. Key material is wiped once it is no longer needed.
func Wipe(b []byte) {
	clear(b)
}
