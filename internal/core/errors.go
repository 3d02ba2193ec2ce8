package core

import "errors"

// Business outcomes and infrastructure failures are distinct sentinel values
// so callers can tell "deny" from "locked" from "retry with backoff".
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrAccountInactive    = errors.New("account inactive")

	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")

	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrSessionOwnerInactive = errors.New("session owner inactive")

	ErrResetTokenNotFound = errors.New("reset token not found")
	ErrResetTokenExpired  = errors.New("reset token expired")
	ErrResetTokenUsed     = errors.New("reset token already used")

	// ErrStorageUnavailable wraps driver/transport failures. It must never be
	// collapsed into ErrInvalidCredentials: a degraded store is not a wrong
	// password.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// IsAuthFailure reports whether err is a business authentication outcome, as
// opposed to an infrastructure failure.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrAccountLocked) ||
		errors.Is(err, ErrAccountInactive)
}
