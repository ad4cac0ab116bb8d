package ulid

import (
	"bytes"
	"errors"
	"time"
)

const (
	// BinaryLen is the size of a ULID's binary representation in bytes.
	BinaryLen = 16
	// EncodedLen is the length of a ULID's canonical text form.
	EncodedLen = 26
	// MaxTime is the largest millisecond timestamp a ULID can carry (48 bits).
	MaxTime uint64 = 1<<48 - 1
)

var (
	ErrInvalidLength      = errors.New("ulid: input is not 26 characters")
	ErrInvalidCharacter   = errors.New("ulid: input contains a character outside the Crockford Base32 alphabet")
	ErrTimestampOverflow  = errors.New("ulid: timestamp exceeds 48 bits")
	ErrRandomnessOverflow = errors.New("ulid: randomness overflow within the same millisecond")
	ErrBufferTooSmall     = errors.New("ulid: destination buffer too small")
)

// ULID is a 128-bit, lexicographically sortable identifier encoded as 16
// bytes big-endian: [6 bytes ms_timestamp][10 bytes randomness]. The zero
// value is the nil ULID. ULIDs are comparable and usable as map keys.
type ULID [BinaryLen]byte

// Pack combines a millisecond timestamp and 80 bits of randomness into a
// ULID. It returns ErrTimestampOverflow when ms does not fit in 48 bits.
func Pack(ms uint64, entropy [10]byte) (ULID, error) {
	if ms > MaxTime {
		return ULID{}, ErrTimestampOverflow
	}
	var id ULID
	id[0] = byte(ms >> 40)
	id[1] = byte(ms >> 32)
	id[2] = byte(ms >> 24)
	id[3] = byte(ms >> 16)
	id[4] = byte(ms >> 8)
	id[5] = byte(ms)
	copy(id[6:], entropy[:])
	return id, nil
}

// Max returns the largest possible ULID.
func Max() ULID {
	var id ULID
	for i := range id {
		id[i] = 0xFF
	}
	return id
}

// Time returns the timestamp field in milliseconds since the Unix epoch.
func (id ULID) Time() uint64 {
	return uint64(id[5]) | uint64(id[4])<<8 | uint64(id[3])<<16 |
		uint64(id[2])<<24 | uint64(id[1])<<32 | uint64(id[0])<<40
}

// Timestamp returns the timestamp field as a time.Time.
func (id ULID) Timestamp() time.Time {
	return time.UnixMilli(int64(id.Time()))
}

// Entropy returns the 80-bit randomness field.
func (id ULID) Entropy() [10]byte {
	var e [10]byte
	copy(e[:], id[6:])
	return e
}

// Bytes returns the raw 16-byte representation.
func (id ULID) Bytes() []byte { b := make([]byte, BinaryLen); copy(b, id[:]); return b }

// IsZero reports whether id is the nil ULID.
func (id ULID) IsZero() bool { return id == ULID{} }

// Compare returns -1, 0, 1 based on lexical comparison. Because the layout is
// big-endian with the timestamp first, this is also chronological order.
func (id ULID) Compare(other ULID) int {
	return bytes.Compare(id[:], other[:])
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (id ULID) MarshalBinary() ([]byte, error) { return id.Bytes(), nil }

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The input must be
// exactly 16 bytes.
func (id *ULID) UnmarshalBinary(data []byte) error {
	if len(data) != BinaryLen {
		return ErrBufferTooSmall
	}
	copy(id[:], data)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ULID) MarshalText() ([]byte, error) { return id.Append(nil), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ULID) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// WriteBinary writes the 16-byte representation of id into dst and returns
// the number of bytes written, or ErrBufferTooSmall.
func WriteBinary(dst []byte, id ULID) (int, error) {
	if len(dst) < BinaryLen {
		return 0, ErrBufferTooSmall
	}
	copy(dst, id[:])
	return BinaryLen, nil
}

// ReadBinary reconstructs a ULID from a 16-byte buffer.
func ReadBinary(src []byte) (ULID, error) {
	var id ULID
	if len(src) < BinaryLen {
		return id, ErrBufferTooSmall
	}
	copy(id[:], src[:BinaryLen])
	return id, nil
}

// WriteText renders id into dst as 26 Crockford Base32 characters, plus a
// trailing NUL byte when terminate is set, for callers that hand the buffer
// across a language boundary. It returns the number of characters written
// excluding the terminator, or ErrBufferTooSmall.
func WriteText(dst []byte, id ULID, terminate bool) (int, error) {
	need := EncodedLen
	if terminate {
		need++
	}
	if len(dst) < need {
		return 0, ErrBufferTooSmall
	}
	encode(dst[:EncodedLen], id)
	if terminate {
		dst[EncodedLen] = 0
	}
	return EncodedLen, nil
}
