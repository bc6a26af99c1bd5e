// Package models holds server-side data types that never cross the wire:
// the user account row and repository query descriptors.
package models

// User is a registered account. PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    string
}
