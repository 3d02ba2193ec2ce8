package store

import (
	"context"

	"usersvc/internal/models"
)

// AppendActivity inserts one audit row. The table is append-only; there is
// deliberately no update or delete counterpart.
func (s *Store) AppendActivity(ctx context.Context, e *models.ActivityLog) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

// ListActivity returns recent audit rows, newest first. An empty userID
// means all users.
func (s *Store) ListActivity(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	q := s.db.WithContext(ctx).Order("created_at desc").Limit(limit)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var logs []models.ActivityLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, storageErr(err)
	}
	return logs, nil
}
