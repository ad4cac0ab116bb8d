package tools

import "github.com/oklog/ulid/v2"

// GenerateULID generates a ULID with the oklog reference implementation.
// The comparison tests use it as an oracle for the native engine's encoding.
func GenerateULID() string {
	return ulid.Make().String()
}
