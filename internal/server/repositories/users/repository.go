// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

type Repository interface {
	// Create inserts a new account. Returns models.ErrAlreadyExists when
	// the username is taken.
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)

	// GetByUsername returns models.ErrNotFound when no such account exists.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
