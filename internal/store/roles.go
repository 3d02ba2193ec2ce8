package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"usersvc/internal/core"
	"usersvc/internal/models"
)

func (s *Store) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&roles).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return roles, nil
}

func (s *Store) RolesFor(ctx context.Context, userID string) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND roles.is_active = ?", userID, true).
		Order("roles.name").
		Pluck("roles.name", &names).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return names, nil
}

// AssignRole inserts the membership row; ON CONFLICT DO NOTHING makes a
// duplicate grant a clean no-op instead of a constraint error.
func (s *Store) AssignRole(ctx context.Context, userID string, roleID int, assignedBy string) error {
	if err := s.checkUserAndRole(ctx, userID, roleID); err != nil {
		return err
	}
	row := models.UserRole{
		UserID:     userID,
		RoleID:     roleID,
		AssignedAt: time.Now(),
	}
	if assignedBy != "" {
		row.AssignedBy = &assignedBy
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// RemoveRole deletes the membership row. Removing a role the user does not
// hold is a no-op, not an error.
func (s *Store) RemoveRole(ctx context.Context, userID string, roleID int) error {
	if err := s.checkUserAndRole(ctx, userID, roleID); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Delete(&models.UserRole{}, "user_id = ? AND role_id = ?", userID, roleID)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	return nil
}

func (s *Store) checkUserAndRole(ctx context.Context, userID string, roleID int) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return storageErr(err)
	}
	if n == 0 {
		return core.ErrUserNotFound
	}
	if err := s.db.WithContext(ctx).Model(&models.Role{}).Where("id = ?", roleID).Count(&n).Error; err != nil {
		return storageErr(err)
	}
	if n == 0 {
		return core.ErrRoleNotFound
	}
	return nil
}
