package tools

import "github.com/segmentio/ksuid"

// GenerateKSUID generates a 27-character KSUID, a second-resolution sortable
// identifier used as a comparison scheme.
func GenerateKSUID() string {
	return ksuid.New().String()
}
