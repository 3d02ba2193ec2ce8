package core

import (
	"context"
	"time"

	"usersvc/internal/models"
)

// The core holds no durable state of its own. Everything security-relevant
// (lockouts, sessions, reset tokens) lives behind these interfaces so it
// survives a restart. Implementations map driver failures to
// ErrStorageUnavailable and not-found conditions to the matching sentinel.

// UserStore is the credential store. FindByUsername and GetByID return the
// user with Roles preloaded.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// RecordFailedAttempt increments failed_login_attempts and, when the
	// post-increment count reaches threshold, sets locked_until to lockUntil,
	// all in one atomic storage statement. It returns the post-increment
	// count and the (possibly unchanged) lock expiry.
	RecordFailedAttempt(ctx context.Context, userID string, threshold int, lockUntil time.Time) (int, *time.Time, error)

	// RecordLoginSuccess resets the attempt counter, clears the lock and
	// stamps last_login in a single statement.
	RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error

	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

// SessionStore persists opaque session handles.
type SessionStore interface {
	CreateSession(ctx context.Context, s *models.Session) error
	FindSessionByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error
}

// ResetTokenStore persists single-use password reset tokens.
type ResetTokenStore interface {
	// CreateResetToken persists t. When invalidatePrior is set, all
	// still-unused tokens for the same user are marked used in the same
	// transaction.
	CreateResetToken(ctx context.Context, t *models.PasswordResetToken, invalidatePrior bool) error

	// RedeemResetToken marks the token used and swaps the owner's password
	// hash in one transaction. A token that cannot be redeemed yields
	// ErrResetTokenNotFound, ErrResetTokenExpired or ErrResetTokenUsed.
	RedeemResetToken(ctx context.Context, token, newHash string, now time.Time) (userID string, err error)
}

// RoleStore is the membership table. Assign and Remove are idempotent.
type RoleStore interface {
	RolesFor(ctx context.Context, userID string) ([]string, error)
	AssignRole(ctx context.Context, userID string, roleID int, assignedBy string) error
	RemoveRole(ctx context.Context, userID string, roleID int) error
}

// AuditEvent is one security-relevant decision.
type AuditEvent struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Details      map[string]any
	IPAddress    string
	UserAgent    string
}

// Auditor is a write-only collaborator; the core never reads it back.
type Auditor interface {
	Record(ctx context.Context, e AuditEvent)
}

// Security event actions emitted by the core.
const (
	ActionLogin            = "login"
	ActionFailedLogin      = "failed_login"
	ActionAccountLocked    = "account_locked"
	ActionSessionCreated   = "session_created"
	ActionSessionRejected  = "session_rejected"
	ActionSessionRevoked   = "session_revoked"
	ActionResetTokenIssued = "password_reset_requested"
	ActionResetCompleted   = "password_reset_completed"
	ActionResetRejected    = "password_reset_rejected"
	ActionRoleGranted      = "role_granted"
	ActionRoleRevoked      = "role_revoked"
)
