package movies

import "time"

type Movie struct {
	ID     uint `gorm:"primaryKey"`
	TmdbID *int `gorm:"uniqueIndex:idx_movies_tmdb_id"`

	Title    string `gorm:"not null;index"`
	Year     *int   `gorm:"index"`
	Synopsis string `gorm:"type:text"`
	// Poster path fragment as delivered by TMDB; the full URL is built at
	// response time by prefixing the configured image base URL.
	PosterPath string

	Genres    []Genre         `gorm:"many2many:movie_genres;constraint:OnDelete:CASCADE"`
	Platforms []MoviePlatform `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Genre struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"not null;uniqueIndex:idx_genres_name"`
	TmdbID *int   `gorm:"uniqueIndex:idx_genres_tmdb_id"`
}

type Platform struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"not null;uniqueIndex:idx_platforms_name"`
	LogoURL string
}

// MoviePlatform links a movie to a platform with the terms of the offer.
// The same pairing may exist once per offer type (stream, rent, buy).
type MoviePlatform struct {
	MovieID    uint     `gorm:"primaryKey"`
	PlatformID uint     `gorm:"primaryKey"`
	OfferType  string   `gorm:"primaryKey;type:varchar(10)"`
	Platform   Platform `gorm:"constraint:OnDelete:CASCADE"`
	Price      *float64
	Link       string
}

const (
	OfferStream = "stream"
	OfferRent   = "rent"
	OfferBuy    = "buy"
)
