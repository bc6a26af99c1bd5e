package models

import "errors"

// Sentinel errors shared by the repositories and the HTTP layer.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)
