package ulid

import "fmt"

// alphabet is Crockford's Base32 character set: no I, L, O or U.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const invalid = 0xFF

// decodeTable maps ASCII bytes to 5-bit values. Lowercase letters map to the
// same values as their uppercase forms; everything else is invalid.
var decodeTable = func() (t [256]byte) {
	for i := range t {
		t[i] = invalid
	}
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		t[c] = byte(i)
		if c >= 'A' && c <= 'Z' {
			t[c+'a'-'A'] = byte(i)
		}
	}
	return t
}()

// encode renders the 128-bit value into dst, which must be 26 bytes. The
// value is consumed 5 bits at a time from the low end; the first character
// holds only the top 3 bits.
func encode(dst []byte, id ULID) {
	hi := uint64(id[0])<<56 | uint64(id[1])<<48 | uint64(id[2])<<40 | uint64(id[3])<<32 |
		uint64(id[4])<<24 | uint64(id[5])<<16 | uint64(id[6])<<8 | uint64(id[7])
	lo := uint64(id[8])<<56 | uint64(id[9])<<48 | uint64(id[10])<<40 | uint64(id[11])<<32 |
		uint64(id[12])<<24 | uint64(id[13])<<16 | uint64(id[14])<<8 | uint64(id[15])

	for i := EncodedLen - 1; i >= 0; i-- {
		dst[i] = alphabet[lo&0x1F]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
}

// String returns the canonical 26-character Crockford Base32 form.
func (id ULID) String() string {
	var buf [EncodedLen]byte
	encode(buf[:], id)
	return string(buf[:])
}

// Append appends the canonical text form to dst and returns the extended
// slice. It does not allocate when dst has capacity.
func (id ULID) Append(dst []byte) []byte {
	var buf [EncodedLen]byte
	encode(buf[:], id)
	return append(dst, buf[:]...)
}

// Parse decodes a 26-character Crockford Base32 string into a ULID. Decoding
// is case-insensitive. It returns ErrInvalidLength when the input is not
// exactly 26 characters, ErrInvalidCharacter when any character falls outside
// the alphabet (including I, L, O and U), and ErrTimestampOverflow when the
// encoded value exceeds 128 bits (first character above '7').
func Parse(s string) (ULID, error) {
	if len(s) != EncodedLen {
		return ULID{}, fmt.Errorf("%w: got %d", ErrInvalidLength, len(s))
	}

	var hi, lo uint64
	for i := 0; i < EncodedLen; i++ {
		v := decodeTable[s[i]]
		if v == invalid {
			return ULID{}, fmt.Errorf("%w: %q at position %d", ErrInvalidCharacter, s[i], i)
		}
		hi = hi<<5 | lo>>59
		lo = lo<<5 | uint64(v)
	}

	// 26 groups of 5 bits hold 130 bits; the top 2 must be zero for the
	// value to fit in 128.
	if decodeTable[s[0]] > 7 {
		return ULID{}, fmt.Errorf("%w: %q exceeds the largest encodable value", ErrTimestampOverflow, s)
	}

	var id ULID
	for i := 7; i >= 0; i-- {
		id[i] = byte(hi)
		hi >>= 8
	}
	for i := 15; i >= 8; i-- {
		id[i] = byte(lo)
		lo >>= 8
	}
	return id, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) ULID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}
