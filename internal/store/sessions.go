package store

import (
	"context"

	"usersvc/internal/core"
	"usersvc/internal/models"
)

func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *Store) FindSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).First(&sess, "session_token = ?", token).Error
	if notFound(err) {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &sess, nil
}

// DeleteSessionByToken removes the row outright; revocation is immediate and there
// is no soft delete. Zero rows affected reports ErrSessionNotFound and the
// manager treats that as success.
func (s *Store) DeleteSessionByToken(ctx context.Context, token string) error {
	res := s.db.WithContext(ctx).Delete(&models.Session{}, "session_token = ?", token)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}
