// Package uuid issues and validates record identifiers.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a time-ordered UUIDv7, suitable for primary keys that should
// sort by creation time. Falls back to a random UUIDv4 if the clock-based
// generator fails.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates a UUID string and returns its canonical form.
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
