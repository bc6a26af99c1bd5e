package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fittrack/internal/client/api"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fittrack/internal/logging"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Session owns the persisted credential. The token survives restarts in
// the metadata store so the client can work offline and resume sync
// without a fresh login.
type Session struct {
	api  api.Client
	meta metadata.Repository
	log  logging.Logger
}

func NewSession(client api.Client, meta metadata.Repository, log logging.Logger) *Session {
	return &Session{api: client, meta: meta, log: log}
}

// Restore loads a previously stored token into the API client. Returns the
// stored username, or "" when no session is stored.
func (s *Session) Restore(ctx context.Context) (string, error) {
	token, err := s.meta.Get(ctx, metadata.KeyAuthToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", nil
	}
	s.api.SetToken(token)
	return s.meta.Get(ctx, metadata.KeyUsername)
}

func (s *Session) Register(ctx context.Context, username, password string) error {
	token, err := s.api.Register(ctx, username, password)
	if err != nil {
		return err
	}
	return s.store(ctx, username, token)
}

func (s *Session) Login(ctx context.Context, username, password string) error {
	token, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return s.store(ctx, username, token)
}

func (s *Session) store(ctx context.Context, username, token string) error {
	s.api.SetToken(token)
	if err := s.meta.Set(ctx, metadata.KeyAuthToken, token); err != nil {
		return err
	}
	return s.meta.Set(ctx, metadata.KeyUsername, username)
}

// Logout drops the credential. Local data stays on disk.
func (s *Session) Logout(ctx context.Context) error {
	s.api.SetToken("")
	if err := s.meta.Delete(ctx, metadata.KeyAuthToken); err != nil {
		return err
	}
	return s.meta.Delete(ctx, metadata.KeyUsername)
}

// Invalidate is called when the server rejects the token; it behaves like
// a logout so the next sync run refuses to start instead of looping on
// 401 responses.
func (s *Session) Invalidate(ctx context.Context) {
	if err := s.Logout(ctx); err != nil {
		s.log.Warn(ctx, "failed to clear invalid session", "error", err)
	}
}

// Username returns the stored username, or ErrNotLoggedIn.
func (s *Session) Username(ctx context.Context) (string, error) {
	token, err := s.meta.Get(ctx, metadata.KeyAuthToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return s.meta.Get(ctx, metadata.KeyUsername)
}
