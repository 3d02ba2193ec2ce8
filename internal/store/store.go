// Package store is the persistence layer: PostgreSQL through GORM for
// users, roles, reset tokens and the activity log, plus a Redis-backed
// session store alternative.
//
// All state transitions that matter for security (lockout counters, token
// redemption) happen in single atomic statements or transactions at the
// row level; nothing here does read-then-write across round trips.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"usersvc/internal/core"
	"usersvc/internal/models"
)

// Store is an explicitly constructed handle over the database, injected
// into the core services at startup. No package-level singleton.
type Store struct {
	db *gorm.DB
}

// Open connects, verifies the connection and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err := db.AutoMigrate(
		&models.Role{}, &models.User{}, &models.UserRole{},
		&models.Session{}, &models.PasswordResetToken{}, &models.ActivityLog{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an already-open GORM handle. Used by tests.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping backs the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageErr(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storageErr(err)
	}
	return nil
}

// Stats aggregates the counters served by the statistics endpoint.
func (s *Store) Stats(ctx context.Context) (*models.UserStats, error) {
	var st models.UserStats
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.User{}).Where("is_active = ?", true).Count(&st.TotalUsers).Error; err != nil {
		return nil, storageErr(err)
	}
	if err := db.Model(&models.Session{}).Where("expires_at > ?", time.Now()).Count(&st.ActiveSessions).Error; err != nil {
		return nil, storageErr(err)
	}
	if err := db.Model(&models.User{}).Where("is_sales_rep = ? AND is_active = ?", true, true).Count(&st.SalesReps).Error; err != nil {
		return nil, storageErr(err)
	}
	if err := db.Model(&models.User{}).Where("last_login > ?", time.Now().Add(-24*time.Hour)).Count(&st.RecentLogins).Error; err != nil {
		return nil, storageErr(err)
	}
	return &st, nil
}

// storageErr wraps a driver failure so callers can errors.Is it against
// core.ErrStorageUnavailable without losing the cause.
func storageErr(err error) error {
	return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
