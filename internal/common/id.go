// Package common contains small helpers shared by the client and server:
// record identifier generation and the canonical timestamp format.
package common

import (
	"crypto/rand"
	"encoding/hex"
)

// IDLength is the length of a record identifier: 12 random bytes encoded
// as lowercase hex. The format is compatible with MongoDB ObjectIds, so an
// id generated on either side is accepted by the other.
const IDLength = 24

// NewID generates a new record identifier.
func NewID() string {
	b := make([]byte, IDLength/2)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}

// IsValidID reports whether s is a well-formed record identifier.
func IsValidID(s string) bool {
	if len(s) != IDLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
