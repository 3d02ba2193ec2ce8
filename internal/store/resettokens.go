package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"usersvc/internal/core"
	"usersvc/internal/models"
)

func (s *Store) CreateResetToken(ctx context.Context, t *models.PasswordResetToken, invalidatePrior bool) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if invalidatePrior {
			if err := tx.Exec(`
				UPDATE password_reset_tokens
				SET used_at = ?
				WHERE user_id = ? AND used_at IS NULL`,
				t.CreatedAt, t.UserID).Error; err != nil {
				return err
			}
		}
		return tx.Create(t).Error
	})
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// RedeemResetToken consumes the token and swaps the owner's password hash
// in one transaction. The conditional UPDATE ... RETURNING is the
// double-spend guard: of two concurrent redemptions only one matches
// used_at IS NULL, the other classifies as already-used.
func (s *Store) RedeemResetToken(ctx context.Context, token, newHash string, now time.Time) (string, error) {
	var userID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := tx.Raw(`
			UPDATE password_reset_tokens
			SET used_at = ?
			WHERE token = ? AND used_at IS NULL AND expires_at > ?
			RETURNING user_id`,
			now, token, now).Row()
		if err := row.Scan(&userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return s.classifyResetFailure(tx, token)
			}
			return err
		}
		return tx.Exec(`
			UPDATE users
			SET password_hash = ?, updated_at = ?
			WHERE id = ?`,
			newHash, now, userID).Error
	})
	if err != nil {
		if errors.Is(err, core.ErrResetTokenNotFound) ||
			errors.Is(err, core.ErrResetTokenExpired) ||
			errors.Is(err, core.ErrResetTokenUsed) {
			return "", err
		}
		return "", storageErr(err)
	}
	return userID, nil
}

// classifyResetFailure distinguishes why the conditional update matched
// nothing. All three are "can't reset" to the caller; the distinction is
// kept for the audit trail.
func (s *Store) classifyResetFailure(tx *gorm.DB, token string) error {
	var t models.PasswordResetToken
	err := tx.First(&t, "token = ?", token).Error
	if notFound(err) {
		return core.ErrResetTokenNotFound
	}
	if err != nil {
		return err
	}
	if t.UsedAt != nil {
		return core.ErrResetTokenUsed
	}
	return core.ErrResetTokenExpired
}
