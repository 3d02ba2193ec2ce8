package core

import (
	"context"
	"errors"
	"time"

	"usersvc/internal/auth"
)

// Identity is the result of a successful authentication. It never carries
// the password hash.
type Identity struct {
	UserID    string
	Username  string
	Email     string
	Roles     []string
	LastLogin *time.Time
}

// Authenticator answers "is this username/password valid right now?" and
// maintains the lockout state machine as a side effect.
type Authenticator struct {
	users UserStore
	audit Auditor
	cfg   Config
	now   func() time.Time
}

func NewAuthenticator(users UserStore, audit Auditor, cfg Config) *Authenticator {
	return &Authenticator{users: users, audit: audit, cfg: cfg, now: time.Now}
}

// Authenticate verifies the credentials and updates lockout counters.
//
// The lock-state check runs before the hash comparison: a locked account is
// refused even with the correct password, and the hasher is never invoked,
// so a locked account cannot be brute-forced or used to burn CPU.
func (a *Authenticator) Authenticate(ctx context.Context, username, password, ip, userAgent string) (*Identity, error) {
	now := a.now()

	u, err := a.users.FindByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		// Identical outcome to a wrong password so usernames cannot be
		// enumerated through the login endpoint.
		a.audit.Record(ctx, AuditEvent{
			Action:    ActionFailedLogin,
			Details:   map[string]any{"username": username, "reason": "unknown_user"},
			IPAddress: ip, UserAgent: userAgent,
		})
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !u.IsActive {
		a.audit.Record(ctx, AuditEvent{
			UserID: u.ID, Action: ActionFailedLogin,
			Details:   map[string]any{"username": username, "reason": "inactive"},
			IPAddress: ip, UserAgent: userAgent,
		})
		return nil, ErrAccountInactive
	}

	if lockedAt(u.LockedUntil, now) {
		a.audit.Record(ctx, AuditEvent{
			UserID: u.ID, Action: ActionFailedLogin,
			Details: map[string]any{
				"username": username, "reason": "locked",
				"locked_until": u.LockedUntil.UTC().Format(time.RFC3339),
			},
			IPAddress: ip, UserAgent: userAgent,
		})
		return nil, ErrAccountLocked
	}

	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		attempts, lockedUntil, serr := a.users.RecordFailedAttempt(
			ctx, u.ID, a.cfg.LockoutThreshold, now.Add(a.cfg.LockoutDuration))
		if serr != nil {
			return nil, serr
		}
		a.audit.Record(ctx, AuditEvent{
			UserID: u.ID, Action: ActionFailedLogin,
			Details:   map[string]any{"username": username, "reason": "bad_password", "attempts": attempts},
			IPAddress: ip, UserAgent: userAgent,
		})
		if lockedAt(lockedUntil, now) && attempts == a.cfg.LockoutThreshold {
			a.audit.Record(ctx, AuditEvent{
				UserID: u.ID, Action: ActionAccountLocked,
				Details: map[string]any{
					"username": username, "attempts": attempts,
					"locked_until": lockedUntil.UTC().Format(time.RFC3339),
				},
				IPAddress: ip, UserAgent: userAgent,
			})
		}
		return nil, ErrInvalidCredentials
	}

	if err := a.users.RecordLoginSuccess(ctx, u.ID, now); err != nil {
		return nil, err
	}

	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r.IsActive {
			roles = append(roles, r.Name)
		}
	}

	a.audit.Record(ctx, AuditEvent{
		UserID: u.ID, Action: ActionLogin,
		Details:   map[string]any{"username": username},
		IPAddress: ip, UserAgent: userAgent,
	})

	return &Identity{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Roles:     roles,
		LastLogin: &now,
	}, nil
}
