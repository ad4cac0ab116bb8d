package tools

import nanoid "github.com/matoous/go-nanoid/v2"

const (
	defaultAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz-"
	defaultSize     = 12
)

// GetNanoId generates a random, non-sortable NanoID at the default length.
func GetNanoId() string {
	id, _ := nanoid.Generate(defaultAlphabet, defaultSize)
	return id
}

// GetNanoIdBy generates a NanoID of the given length.
func GetNanoIdBy(length int) string {
	id, _ := nanoid.Generate(defaultAlphabet, length)
	return id
}
