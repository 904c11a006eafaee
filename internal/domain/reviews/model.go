package reviews

import (
	"time"

	"github.com/yagocr2/FilmWhere-sub000/internal/domain/movies"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/users"
)

// Review holds one user's score for one movie. The composite unique index
// is what ultimately guarantees one review per user per movie; handlers
// check first so the common case returns a clean conflict.
type Review struct {
	ID      uint `gorm:"primaryKey"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_reviews_user_movie"`
	MovieID uint `gorm:"not null;uniqueIndex:idx_reviews_user_movie"`

	User  users.User   `gorm:"constraint:OnDelete:CASCADE"`
	Movie movies.Movie `gorm:"constraint:OnDelete:CASCADE"`

	Score int    `gorm:"not null"` // 1..10
	Body  string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	MinScore = 1
	MaxScore = 10
)
