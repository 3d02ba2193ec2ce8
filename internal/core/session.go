package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"usersvc/internal/models"
)

// SessionContext is the answer to a successful session validation.
type SessionContext struct {
	UserID    string
	Username  string
	Roles     []string
	ExpiresAt time.Time
}

// SessionManager issues, validates and revokes opaque session handles.
// Expiry is creation time plus a fixed TTL; there is no sliding window.
type SessionManager struct {
	sessions SessionStore
	users    UserStore
	audit    Auditor
	cfg      Config
	now      func() time.Time
}

func NewSessionManager(sessions SessionStore, users UserStore, audit Auditor, cfg Config) *SessionManager {
	return &SessionManager{sessions: sessions, users: users, audit: audit, cfg: cfg, now: time.Now}
}

// CreateSession mints two independent high-entropy tokens and persists the
// session with a fixed TTL.
func (m *SessionManager) CreateSession(ctx context.Context, userID, ip, userAgent string) (*models.Session, error) {
	token, err := NewToken(m.cfg.TokenBytes)
	if err != nil {
		return nil, err
	}
	refresh, err := NewToken(m.cfg.TokenBytes)
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := &models.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		SessionToken: token,
		RefreshToken: refresh,
		IPAddress:    ip,
		UserAgent:    userAgent,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.cfg.SessionTTL),
	}
	if err := m.sessions.CreateSession(ctx, s); err != nil {
		return nil, err
	}

	m.audit.Record(ctx, AuditEvent{
		UserID: userID, Action: ActionSessionCreated,
		ResourceType: "session", ResourceID: s.ID,
		Details:   map[string]any{"expires_at": s.ExpiresAt.UTC().Format(time.RFC3339)},
		IPAddress: ip, UserAgent: userAgent,
	})
	return s, nil
}

// ValidateSession resolves a session token to its owner and roles. A session
// is valid iff the token exists, now is strictly before expires_at, and the
// owner is still active: deactivating a user kills their live sessions
// immediately.
func (m *SessionManager) ValidateSession(ctx context.Context, token string) (*SessionContext, error) {
	s, err := m.sessions.FindSessionByToken(ctx, token)
	if errors.Is(err, ErrSessionNotFound) {
		m.audit.Record(ctx, AuditEvent{
			Action: ActionSessionRejected, ResourceType: "session",
			Details: map[string]any{"reason": "not_found"},
		})
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	now := m.now()
	if !now.Before(s.ExpiresAt) {
		m.audit.Record(ctx, AuditEvent{
			UserID: s.UserID, Action: ActionSessionRejected,
			ResourceType: "session", ResourceID: s.ID,
			Details: map[string]any{"reason": "expired"},
		})
		return nil, ErrSessionExpired
	}

	u, err := m.users.GetByID(ctx, s.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrSessionOwnerInactive
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		m.audit.Record(ctx, AuditEvent{
			UserID: s.UserID, Action: ActionSessionRejected,
			ResourceType: "session", ResourceID: s.ID,
			Details: map[string]any{"reason": "owner_inactive"},
		})
		return nil, ErrSessionOwnerInactive
	}

	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r.IsActive {
			roles = append(roles, r.Name)
		}
	}
	return &SessionContext{
		UserID:    u.ID,
		Username:  u.Username,
		Roles:     roles,
		ExpiresAt: s.ExpiresAt,
	}, nil
}

// DeleteSession revokes a session immediately. Deleting a token that does
// not exist is success: logout is idempotent.
func (m *SessionManager) DeleteSession(ctx context.Context, token string) error {
	err := m.sessions.DeleteSessionByToken(ctx, token)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	m.audit.Record(ctx, AuditEvent{
		Action: ActionSessionRevoked, ResourceType: "session",
	})
	return nil
}
