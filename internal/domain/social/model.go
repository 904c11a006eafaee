package social

import (
	"time"

	"github.com/yagocr2/FilmWhere-sub000/internal/domain/movies"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/users"
)

type Favorite struct {
	UserID  uint `gorm:"primaryKey"`
	MovieID uint `gorm:"primaryKey"`

	User  users.User   `gorm:"constraint:OnDelete:CASCADE"`
	Movie movies.Movie `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

type Follow struct {
	FollowerID uint `gorm:"primaryKey"`
	FollowedID uint `gorm:"primaryKey"`

	Follower users.User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followed users.User `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
}

// Report is a user-on-user moderation report (a "denuncia").
type Report struct {
	ID         uint `gorm:"primaryKey"`
	ReporterID uint `gorm:"not null;index"`
	ReportedID uint `gorm:"not null;index"`

	Reporter users.User `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE"`
	Reported users.User `gorm:"foreignKey:ReportedID;constraint:OnDelete:CASCADE"`

	Reason string `gorm:"type:text;not null"`
	Status string `gorm:"type:varchar(20);not null;default:'open';index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	ReportOpen      = "open"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)
