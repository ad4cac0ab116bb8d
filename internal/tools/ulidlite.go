package tools

import "ulid-lite/pkg/ulid"

// GenerateULIDLite generates a 26-character ULID with the native engine,
// drawing from its process-wide monotonic generator.
func GenerateULIDLite() string {
	return ulid.MakeString()
}
