// Package ulid implements Universally Unique Lexicographically Sortable
// Identifiers.
//
// # Format
//
// A ULID is 16 bytes big-endian: [6 bytes ms_timestamp][10 bytes randomness].
// The canonical text form is 26 characters of Crockford Base32, which sorts
// byte-wise in the same order as the binary value. The first character only
// carries the top 3 bits, so it never exceeds '7'.
//
// # Monotonicity
//
// The Generator ensures per-instance monotonicity:
//   - If the system clock regresses, it pins to the last seen millisecond and
//     keeps incrementing the randomness to avoid going backwards.
//   - Within one millisecond the randomness field is incremented by one per
//     call; if it would overflow, Next returns ErrRandomnessOverflow and the
//     caller decides whether to retry at the next millisecond.
//
// Usage
//
//	g := ulid.NewGenerator()
//	id, err := g.Next()
//	b := id.Bytes()   // 16-byte representation
//	s := id.String()  // 26-char Crockford Base32
//
// For one-shot use, Make and MakeString draw from a lazily initialized
// process-wide generator.
package ulid
