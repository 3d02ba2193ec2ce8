package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"usersvc/internal/auth"
	"usersvc/internal/models"
)

// ResetManager issues and redeems single-use, time-boxed password reset
// tokens.
//
// Issuing a new token invalidates all prior unused tokens for the user, so
// at most one token is live per account at any time.
type ResetManager struct {
	tokens ResetTokenStore
	audit  Auditor
	cfg    Config
	now    func() time.Time
}

func NewResetManager(tokens ResetTokenStore, audit Auditor, cfg Config) *ResetManager {
	return &ResetManager{tokens: tokens, audit: audit, cfg: cfg, now: time.Now}
}

func (m *ResetManager) CreateResetToken(ctx context.Context, userID string) (*models.PasswordResetToken, error) {
	token, err := NewToken(m.cfg.TokenBytes)
	if err != nil {
		return nil, err
	}

	now := m.now()
	t := &models.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.ResetTokenTTL),
	}
	if err := m.tokens.CreateResetToken(ctx, t, true); err != nil {
		return nil, err
	}

	m.audit.Record(ctx, AuditEvent{
		UserID: userID, Action: ActionResetTokenIssued,
		ResourceType: "password_reset_token", ResourceID: t.ID,
		Details: map[string]any{"expires_at": t.ExpiresAt.UTC().Format(time.RFC3339)},
	})
	return t, nil
}

// RedeemResetToken swaps the owner's password for newPassword if and only if
// the token is unused and unexpired. The store performs the check and both
// updates in a single transaction, so two racing redemptions cannot both
// win; the loser gets ErrResetTokenUsed.
func (m *ResetManager) RedeemResetToken(ctx context.Context, token, newPassword string) error {
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	userID, err := m.tokens.RedeemResetToken(ctx, token, hash, m.now())
	if err != nil {
		if errors.Is(err, ErrResetTokenNotFound) || errors.Is(err, ErrResetTokenExpired) || errors.Is(err, ErrResetTokenUsed) {
			m.audit.Record(ctx, AuditEvent{
				UserID: userID, Action: ActionResetRejected,
				ResourceType: "password_reset_token",
				Details:      map[string]any{"reason": err.Error()},
			})
		}
		return err
	}

	m.audit.Record(ctx, AuditEvent{
		UserID: userID, Action: ActionResetCompleted,
		ResourceType: "password_reset_token",
	})
	return nil
}
