package users

import "time"

type VerificationToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Token     string `gorm:"uniqueIndex"`
	Type      string `gorm:"index"` // email_verify | password_reset
	ExpiresAt time.Time
	CreatedAt time.Time
}

const (
	TokenEmailVerify   = "email_verify"
	TokenPasswordReset = "password_reset"
)
