package linkedin

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dinoai/omnicast/internal/domain"
)

const (
	// pendingStateCap bounds how many authorization attempts may be
	// outstanding at once.
	pendingStateCap = 256

	// pendingStateTTL is how long a consent redirect may take before the
	// attempt expires.
	pendingStateTTL = 10 * time.Minute
)

// SessionManager drives the three-state authorization flow:
// Unauthenticated → AuthorizationRequested → Authenticated. Each attempt
// carries a fresh random anti-forgery state token, held server-side until the
// callback consumes it.
type SessionManager struct {
	client  *Client
	pending *expirable.LRU[string, time.Time]
	logger  *slog.Logger
}

// NewSessionManager creates a session manager around a LinkedIn client.
func NewSessionManager(client *Client, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		client:  client,
		pending: expirable.NewLRU[string, time.Time](pendingStateCap, nil, pendingStateTTL),
		logger:  logger,
	}
}

// Begin starts one authorization attempt and returns the provider consent
// URL to redirect the user agent to.
func (m *SessionManager) Begin() string {
	state := uuid.NewString()
	m.pending.Add(state, time.Now().UTC())
	m.logger.Info("authorization requested", "provider", "linkedin")
	return m.client.AuthURL(state)
}

// Complete handles the callback leg: it verifies and consumes the state
// token, exchanges the code, and resolves the actor URN. Any failure leaves
// the flow Unauthenticated; a session is returned only when both the token
// exchange and the profile lookup succeed.
func (m *SessionManager) Complete(ctx context.Context, state, code string) (*domain.Session, error) {
	// Remove is the verification: it reports whether the token was still
	// pending, so concurrent callbacks cannot both consume it.
	if !m.pending.Remove(state) {
		return nil, domain.NewError(domain.KindAuthExchangeFailed, "unknown or expired state token", nil)
	}

	if code == "" {
		return nil, domain.NewError(domain.KindAuthExchangeFailed, "no authorization code returned", nil)
	}

	session, err := m.client.Authorize(ctx, code)
	if err != nil {
		m.logger.Warn("authorization failed", "provider", "linkedin", "error", err)
		return nil, err
	}

	m.logger.Info("authenticated", "provider", "linkedin", "actor", session.ActorURN)
	return session, nil
}
