package ulid

import (
	"fmt"
	"io"
	"math/rand"
	"time"
)

// Entropy sources are plain io.Readers supplying 10 bytes (80 bits) per
// draw. Deterministic sources make generator output reproducible; callers
// that want cryptographic entropy can pass crypto/rand.Reader instead.

// NewSource returns a deterministic entropy source. Two sources built from
// the same seed produce identical byte sequences.
func NewSource(seed uint64) io.Reader {
	return rand.New(rand.NewSource(int64(seed)))
}

// NewClockSource returns an entropy source seeded from the wall clock.
func NewClockSource() io.Reader {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func readEntropy(r io.Reader) ([10]byte, error) {
	var e [10]byte
	if _, err := io.ReadFull(r, e[:]); err != nil {
		return e, fmt.Errorf("ulid: read entropy: %w", err)
	}
	return e, nil
}
