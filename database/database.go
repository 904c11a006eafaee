package database

import (
	"context"
	"log"
	"time"

	"github.com/yagocr2/FilmWhere-sub000/config"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/movies"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/reviews"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/social"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Open(cfg config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	return db
}

// Migrate creates/updates the schema for every domain model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&users.VerificationToken{},

		&movies.Genre{},
		&movies.Platform{},
		&movies.Movie{},
		&movies.MoviePlatform{},

		&reviews.Review{},

		&social.Favorite{},
		&social.Follow{},
		&social.Report{},
	)
}

// Available reports whether the relational store can be reached right now.
// Any failure (timeout, refused connection, bad credentials) counts as
// unavailable. The result is intentionally not cached: callers re-probe per
// request so a recovered store is picked up immediately.
func Available(db *gorm.DB) bool {
	if db == nil {
		return false
	}
	sqlDB, err := db.DB()
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx) == nil
}
