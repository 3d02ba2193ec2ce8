package store

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"usersvc/internal/models"
)

// SeedRole inserts a role if it does not exist yet.
func (s *Store) SeedRole(name string) {
	s.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Role{Name: name, IsActive: true})
}

// SeedAdmin creates the bootstrap admin account with the given role unless
// a user with that username already exists.
func (s *Store) SeedAdmin(u *models.User, roleName string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", u.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		var role models.Role
		if err := tx.First(&role, "name = ?", roleName).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserRole{
			UserID:     u.ID,
			RoleID:     role.ID,
			AssignedAt: time.Now(),
		}).Error
	})
}
