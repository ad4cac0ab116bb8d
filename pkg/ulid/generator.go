package ulid

import (
	"io"
	"sync"
	"time"
)

// Now returns the current time in milliseconds since the Unix epoch.
var Now = func() uint64 { return uint64(time.Now().UnixMilli()) }

// Generator produces monotonically increasing ULIDs. Within one millisecond
// each call increments the randomness of the previous ID by one; across
// milliseconds the randomness is redrawn from the entropy source. If the
// system clock regresses, the generator pins to the last seen millisecond so
// output never goes backwards, at the cost of absolute timestamp accuracy.
//
// A Generator serializes its own state with a mutex and is safe for
// concurrent use. Independent Generator instances give no ordering guarantee
// relative to each other.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	lastMs  uint64
	lastRnd [10]byte
	primed  bool
}

// NewGenerator creates a Generator seeded from the wall clock.
func NewGenerator() *Generator { return NewGeneratorFrom(NewClockSource()) }

// NewSeededGenerator creates a Generator with a deterministic entropy
// source. Same seed, same randomness sequence.
func NewSeededGenerator(seed uint64) *Generator { return NewGeneratorFrom(NewSource(seed)) }

// NewGeneratorFrom creates a Generator drawing entropy from r, 10 bytes per
// draw.
func NewGeneratorFrom(r io.Reader) *Generator { return &Generator{entropy: r} }

// Next returns a new ULID. Calls within the same millisecond yield strictly
// increasing values. It returns ErrRandomnessOverflow if the randomness
// field is exhausted within one millisecond (the caller may retry at the
// next millisecond; generator state is left untouched), and
// ErrTimestampOverflow if the clock is past the 48-bit horizon. Next never
// blocks or sleeps.
func (g *Generator) Next() (ULID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := Now()
	if g.primed && ms < g.lastMs {
		ms = g.lastMs
	}

	if g.primed && ms == g.lastMs {
		rnd, ok := increment(g.lastRnd)
		if !ok {
			return ULID{}, ErrRandomnessOverflow
		}
		g.lastRnd = rnd
		return Pack(ms, rnd)
	}

	if ms > MaxTime {
		return ULID{}, ErrTimestampOverflow
	}
	rnd, err := readEntropy(g.entropy)
	if err != nil {
		return ULID{}, err
	}
	g.lastMs, g.lastRnd, g.primed = ms, rnd, true
	return Pack(ms, rnd)
}

// NextBinary generates a new ULID directly into dst and returns the number
// of bytes written, or ErrBufferTooSmall. The buffer must hold 16 bytes.
func (g *Generator) NextBinary(dst []byte) (int, error) {
	if len(dst) < BinaryLen {
		return 0, ErrBufferTooSmall
	}
	id, err := g.Next()
	if err != nil {
		return 0, err
	}
	copy(dst, id[:])
	return BinaryLen, nil
}

// increment adds one to the 80-bit randomness. The second return is false on
// carry out of the top byte.
func increment(rnd [10]byte) ([10]byte, bool) {
	for i := len(rnd) - 1; i >= 0; i-- {
		rnd[i]++
		if rnd[i] != 0 {
			return rnd, true
		}
	}
	return rnd, false
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
)

// defaultGenerator lazily initializes the process-wide generator on first
// use. It lives for the process duration.
func defaultGenerator() *Generator {
	defaultOnce.Do(func() { defaultGen = NewGenerator() })
	return defaultGen
}

// Make returns a ULID from the process-wide default generator. It panics on
// the overflow conditions, which are unreachable before the year 10889 with
// fresh 80-bit randomness per millisecond.
func Make() ULID {
	id, err := defaultGenerator().Next()
	if err != nil {
		panic(err)
	}
	return id
}

// MakeString is shorthand for Make().String().
func MakeString() string { return Make().String() }
