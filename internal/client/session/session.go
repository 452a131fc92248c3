// Package session owns a diner's identity for one visit: login, token
// installation, and the teardown that hands the table back.
package session

import (
	"context"
	"fmt"

	"tableside/internal/client/api"
	"tableside/internal/client/occupancy"
	"tableside/internal/logger"
	"tableside/internal/models"
)

// TokenSink receives the session token the backend issues. The rpc client
// satisfies this.
type TokenSink interface {
	SetToken(token string)
}

// Session is one diner's visit to one store. It carries the identity every
// call needs and guarantees the table is released when the visit ends.
type Session struct {
	API    *api.API
	Tokens TokenSink
	Guard  *occupancy.Guard
	Logger *logger.Logger

	UserID      string
	OpenID      string
	StoreID     int64
	TableID     int64
	ConsumeType models.ConsumeType

	active bool
}

func New(a *api.API, tokens TokenSink, guard *occupancy.Guard, log *logger.Logger) *Session {
	return &Session{API: a, Tokens: tokens, Guard: guard, Logger: log}
}

// Begin logs the diner in and installs the issued token so every subsequent
// call is authenticated.
func (s *Session) Begin(ctx context.Context, userID string, storeID, tableID int64, consumeType models.ConsumeType) error {
	result, err := s.API.Login(ctx, userID)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	s.Tokens.SetToken(result.Token)

	s.UserID = userID
	s.OpenID = result.OpenID
	s.StoreID = storeID
	s.TableID = tableID
	s.ConsumeType = consumeType
	s.active = true

	if s.Logger != nil {
		s.Logger.Info("SESSION", fmt.Sprintf("session started for %s at store %d", userID, storeID))
	}
	return nil
}

// Refresh re-authenticates with the stored identity. Wired into the rpc
// client as its reauth hook, so an expired token is replaced transparently.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	if s.UserID == "" {
		return "", fmt.Errorf("no session to refresh")
	}
	result, err := s.API.Login(ctx, s.UserID)
	if err != nil {
		return "", err
	}
	s.OpenID = result.OpenID
	return result.Token, nil
}

// End tears the visit down. The table release is best-effort; a second End
// is a no-op.
func (s *Session) End() {
	if !s.active {
		return
	}
	s.active = false
	s.Guard.Release()
	if s.Logger != nil {
		s.Logger.Info("SESSION", fmt.Sprintf("session ended for %s", s.UserID))
	}
}

// Active reports whether Begin has run and End has not.
func (s *Session) Active() bool {
	return s.active
}
