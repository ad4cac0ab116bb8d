package ulid

import (
	"errors"
	"sort"
	"strings"
	"testing"
)

func TestEncodeZero(t *testing.T) {
	var id ULID
	want := strings.Repeat("0", EncodedLen)
	if got := id.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	back, err := Parse(want)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if back != id {
		t.Fatalf("round trip mismatch: %v", back)
	}
}

func TestEncodeMax(t *testing.T) {
	id := Max()
	// 26 five-bit groups hold 130 bits; the first group only carries the
	// top 3 bits, so it saturates at '7'.
	want := "7" + strings.Repeat("Z", EncodedLen-1)
	if got := id.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	back, err := Parse(want)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if back != id {
		t.Fatalf("round trip mismatch: %v", back)
	}
}

func TestRoundTrip(t *testing.T) {
	g := NewSeededGenerator(42)
	for i := 0; i < 1000; i++ {
		id, err := g.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		back, err := Parse(id.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", id.String(), err)
		}
		if back != id {
			t.Fatalf("round trip mismatch: %v != %v", back, id)
		}
	}
}

func TestParseCaseInsensitive(t *testing.T) {
	id := MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	lower, err := Parse("01arz3ndektsv4rrffq69g5fav")
	if err != nil {
		t.Fatalf("Parse lowercase: %v", err)
	}
	if lower != id {
		t.Fatalf("lowercase decode mismatch")
	}
	mixed, err := Parse("01aRz3NdEkTsV4rRfFq69g5FaV")
	if err != nil {
		t.Fatalf("Parse mixed case: %v", err)
	}
	if mixed != id {
		t.Fatalf("mixed case decode mismatch")
	}
}

func TestParseInvalidLength(t *testing.T) {
	for _, s := range []string{
		"",
		"0",
		strings.Repeat("0", EncodedLen-1),
		strings.Repeat("0", EncodedLen+1),
	} {
		if _, err := Parse(s); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("Parse(%d chars) = %v, want ErrInvalidLength", len(s), err)
		}
	}
}

func TestParseInvalidCharacter(t *testing.T) {
	base := strings.Repeat("0", EncodedLen)
	for _, c := range "ILOUilou!*~ " {
		s := base[:10] + string(c) + base[11:]
		if _, err := Parse(s); !errors.Is(err, ErrInvalidCharacter) {
			t.Errorf("Parse with %q = %v, want ErrInvalidCharacter", c, err)
		}
	}
}

func TestParseOverflow(t *testing.T) {
	// '8' in the first position encodes exactly 2^128, one past the
	// largest representable value.
	s := "8" + strings.Repeat("0", EncodedLen-1)
	if _, err := Parse(s); !errors.Is(err, ErrTimestampOverflow) {
		t.Fatalf("Parse(%q) = %v, want ErrTimestampOverflow", s, err)
	}
}

func TestLexicographicOrderMatchesBinary(t *testing.T) {
	g := NewSeededGenerator(7)
	ids := make([]ULID, 0, 500)
	for i := 0; i < 500; i++ {
		id, err := g.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		ids = append(ids, id)
	}
	ids = append(ids, ULID{}, Max())

	encoded := make([]string, len(ids))
	for i, id := range ids {
		encoded[i] = id.String()
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })
	sort.Strings(encoded)

	for i, id := range ids {
		if id.String() != encoded[i] {
			t.Fatalf("order diverges at %d: binary %q vs text %q", i, id.String(), encoded[i])
		}
	}
}

func TestAppendDoesNotAllocate(t *testing.T) {
	id := MustParse("01ARZ3NDEKTSV4RRFFQ69G5FAV")
	buf := make([]byte, 0, EncodedLen)
	allocs := testing.AllocsPerRun(100, func() {
		buf = id.Append(buf[:0])
	})
	if allocs != 0 {
		t.Fatalf("Append allocated %.1f times per run", allocs)
	}
	if string(buf) != id.String() {
		t.Fatalf("Append = %q, want %q", buf, id.String())
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustParse("not a ulid")
}

func BenchmarkEncode(b *testing.B) {
	id := Max()
	var buf [EncodedLen]byte
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		encode(buf[:], id)
	}
}

func BenchmarkParse(b *testing.B) {
	s := Max().String()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(s); err != nil {
			b.Fatal(err)
		}
	}
}
