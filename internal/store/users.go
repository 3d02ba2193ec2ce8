package store

import (
	"context"
	"strings"
	"time"

	"usersvc/internal/core"
	"usersvc/internal/models"
)

func (s *Store) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Preload("Roles").
		First(&u, "username = ?", strings.ToLower(username)).Error
	if notFound(err) {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &u, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Preload("Roles").First(&u, "id = ?", id).Error
	if notFound(err) {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &u, nil
}

// RecordFailedAttempt bumps the counter and arms the lock in one statement.
// The read-modify-write lives entirely inside the UPDATE so concurrent
// failures for the same user cannot lose updates, and the threshold check
// runs against the post-increment value.
func (s *Store) RecordFailedAttempt(ctx context.Context, userID string, threshold int, lockUntil time.Time) (int, *time.Time, error) {
	var attempts int
	var lockedUntil *time.Time
	row := s.db.WithContext(ctx).Raw(`
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE
		        WHEN failed_login_attempts + 1 >= ? THEN ?
		        ELSE locked_until
		    END,
		    updated_at = ?
		WHERE id = ?
		RETURNING failed_login_attempts, locked_until`,
		threshold, lockUntil, time.Now(), userID).Row()
	if err := row.Scan(&attempts, &lockedUntil); err != nil {
		return 0, nil, storageErr(err)
	}
	return attempts, lockedUntil, nil
}

// RecordLoginSuccess clears the lockout state and stamps last_login.
func (s *Store) RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error {
	err := s.db.WithContext(ctx).Exec(`
		UPDATE users
		SET failed_login_attempts = 0, locked_until = NULL, last_login = ?, updated_at = ?
		WHERE id = ?`,
		at, at, userID).Error
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]any{"password_hash": hash, "updated_at": time.Now()})
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return core.ErrUserNotFound
	}
	return nil
}

// UserFilter narrows ListUsers. Nil pointer fields are "don't care".
type UserFilter struct {
	Search     string
	IsActive   *bool
	IsSalesRep *bool
	Limit      int
	Offset     int
}

func (s *Store) ListUsers(ctx context.Context, f UserFilter) ([]models.User, error) {
	q := s.db.WithContext(ctx).Preload("Roles").Order("created_at desc")
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("username ILIKE ? OR email ILIKE ?", like, like)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.IsSalesRep != nil {
		q = q.Where("is_sales_rep = ?", *f.IsSalesRep)
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var users []models.User
	if err := q.Limit(limit).Offset(f.Offset).Find(&users).Error; err != nil {
		return nil, storageErr(err)
	}
	return users, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Username = strings.ToLower(u.Username)
	u.Email = strings.ToLower(u.Email)
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

// UserUpdate carries the allow-listed mutable fields; nil means unchanged.
type UserUpdate struct {
	Email      *string
	IsActive   *bool
	IsSalesRep *bool
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd UserUpdate) (*models.User, error) {
	fields := map[string]any{"updated_at": time.Now()}
	if upd.Email != nil {
		fields["email"] = strings.ToLower(*upd.Email)
	}
	if upd.IsActive != nil {
		fields["is_active"] = *upd.IsActive
	}
	if upd.IsSalesRep != nil {
		fields["is_sales_rep"] = *upd.IsSalesRep
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, core.ErrUserNotFound
	}
	return s.GetByID(ctx, id)
}

// DeactivateUser is the soft delete: the row stays, logins and existing
// sessions stop working.
func (s *Store) DeactivateUser(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()})
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return core.ErrUserNotFound
	}
	return nil
}
