// Package uuid generates the time-ordered identifiers used as primary keys.
package uuid

import (
	"strings"

	googleuuid "github.com/google/uuid"
)

// New generates a new UUIDv7 string. UUIDv7 ids sort by creation time, which
// keeps ledger rows roughly insertion-ordered in indexes.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to UUIDv4 if the random source fails
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates and normalizes a UUID string
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}

// Short returns the last eight hex digits of id in upper case, for use in
// human-readable reference codes. UUIDv7 ids keep their randomness at the end.
func Short(id string) string {
	hex := strings.ReplaceAll(id, "-", "")
	if len(hex) < 8 {
		return strings.ToUpper(hex)
	}
	return strings.ToUpper(hex[len(hex)-8:])
}
