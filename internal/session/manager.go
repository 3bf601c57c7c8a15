package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mercadito/console/model"
)

// Authenticator exchanges credentials for a backend token. Satisfied by
// the backend client.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (model.Credentials, error)
}

// Manager ties login, logout, and the per-request validity check to a
// credential store. Session ids are random uuids handed to the browser as
// a cookie; the token itself never leaves the server.
type Manager struct {
	auth   Authenticator
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewManager creates a session manager with the given credential store
// and session TTL.
func NewManager(auth Authenticator, store Store, ttl time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{auth: auth, store: store, ttl: ttl, logger: logger}
}

// Login authenticates against the backend and opens a session. It returns
// the new session id and the account's display name.
func (m *Manager) Login(ctx context.Context, email, password string) (string, string, error) {
	creds, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return "", "", err
	}

	sid := uuid.NewString()
	if err := m.store.Save(ctx, sid, creds, m.ttl); err != nil {
		m.logger.Error("session save failed", zap.Error(err))
		return "", "", model.NewInternalError()
	}

	m.logger.Info("session opened", zap.String("session_id", sid))
	return sid, creds.FullName, nil
}

// Logout closes a session. Logging out an unknown session succeeds.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := m.store.Clear(ctx, sessionID); err != nil {
		m.logger.Error("session clear failed", zap.Error(err))
		return model.NewInternalError()
	}
	m.logger.Info("session closed", zap.String("session_id", sessionID))
	return nil
}

// Valid reports whether a session is live: it must exist, hold both the
// token and the full name, and the token must pass TokenValid. Store
// failures are treated as an invalid session rather than an error so the
// guard fails closed.
func (m *Manager) Valid(ctx context.Context, sessionID string) (model.Credentials, bool) {
	if sessionID == "" {
		return model.Credentials{}, false
	}

	creds, found, err := m.store.Get(ctx, sessionID)
	if err != nil {
		m.logger.Warn("session lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		return model.Credentials{}, false
	}
	if !found {
		return model.Credentials{}, false
	}
	if creds.Token == "" || creds.FullName == "" {
		return model.Credentials{}, false
	}
	if !TokenValid(creds.Token) {
		return model.Credentials{}, false
	}
	return creds, true
}
