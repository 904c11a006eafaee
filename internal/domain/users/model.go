package users

import "time"

type User struct {
	ID       uint    `gorm:"primaryKey"`
	UserName string  `gorm:"not null;uniqueIndex:idx_users_username"`
	Email    string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password *string `gorm:""` // nil for Google-only accounts

	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`

	Role       string `gorm:"type:varchar(20);not null;default:'user'"`
	IsVerified bool
	IsBanned   bool

	BirthDate *time.Time
	Bio       string `gorm:"type:text"`
	AvatarURL string

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
