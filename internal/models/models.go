package models

import "time"

type Role struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}

type User struct {
	ID                  string     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username            string     `gorm:"uniqueIndex;not null" json:"username"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash        string     `gorm:"not null" json:"-"`
	IsActive            bool       `gorm:"not null;default:true" json:"is_active"`
	IsSalesRep          bool       `gorm:"not null;default:false" json:"is_sales_rep"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
	Roles               []Role     `gorm:"many2many:user_roles" json:"roles"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// UserRole is the join table behind User.Roles. Declared explicitly so the
// assignment metadata survives and (user_id, role_id) stays unique.
type UserRole struct {
	UserID     string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	RoleID     int       `gorm:"primaryKey" json:"role_id"`
	AssignedBy *string   `gorm:"type:uuid" json:"assigned_by,omitempty"`
	AssignedAt time.Time `gorm:"not null" json:"assigned_at"`
}

type Session struct {
	ID           string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       string    `gorm:"type:uuid;index;not null" json:"user_id"`
	SessionToken string    `gorm:"uniqueIndex;size:128;not null" json:"session_token"`
	RefreshToken string    `gorm:"uniqueIndex;size:128;not null" json:"refresh_token"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `gorm:"index;not null" json:"expires_at"`
}

type PasswordResetToken struct {
	ID        string     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    string     `gorm:"type:uuid;index;not null" json:"user_id"`
	Token     string     `gorm:"uniqueIndex;size:128;not null" json:"token"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// ActivityLog rows are append-only; nothing in the service updates or
// deletes them.
type ActivityLog struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       *string   `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action       string    `gorm:"not null" json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Details      JSONB     `gorm:"type:jsonb;default:'{}'::jsonb" json:"details"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserStats is the aggregate snapshot served by the statistics endpoint.
type UserStats struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveSessions int64 `json:"active_sessions"`
	SalesReps      int64 `json:"sales_reps"`
	RecentLogins   int64 `json:"recent_logins"`
}
