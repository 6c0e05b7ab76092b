// Package uuid generates the time-ordered identifiers used as primary keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. Version 7 ids sort by creation time, which
// keeps history tables naturally ordered by insertion.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID.
func IsValid(s string) bool {
	return googleuuid.Validate(s) == nil
}
