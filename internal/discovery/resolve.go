package discovery

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/yagocr2/FilmWhere-sub000/internal/domain/movies"
	"github.com/yagocr2/FilmWhere-sub000/internal/infra/tmdb"
)

// resolveLocal probes the local store for an identifier that may be a local
// row id, a TMDB id, or a title fragment — in that order. The order matters:
// callers pass bare numeric strings from both id spaces.
func (s *Service) resolveLocal(ctx context.Context, idOrTitle string) (movies.Movie, error) {
	var movie movies.Movie

	if n, err := strconv.Atoi(idOrTitle); err == nil {
		err := s.db.WithContext(ctx).Preload("Genres").First(&movie, n).Error
		if err == nil {
			return movie, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return movies.Movie{}, err
		}

		err = s.db.WithContext(ctx).Preload("Genres").Where("tmdb_id = ?", n).First(&movie).Error
		if err == nil {
			return movie, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return movies.Movie{}, err
		}
	}

	err := s.db.WithContext(ctx).Preload("Genres").
		Where("LOWER(title) LIKE ?", "%"+strings.ToLower(idOrTitle)+"%").
		Order("id").
		First(&movie).Error
	if err == nil {
		return movie, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return movies.Movie{}, ErrNotFound
	}
	return movies.Movie{}, err
}

// ResolveMovie finds or creates the local row for an identifier. When every
// local probe misses and the identifier is numeric, it is treated as a TMDB
// id and synced from the external source.
func (s *Service) ResolveMovie(ctx context.Context, idOrTitle string) (movies.Movie, error) {
	movie, err := s.resolveLocal(ctx, idOrTitle)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return movies.Movie{}, err
	}

	tmdbID, convErr := strconv.Atoi(idOrTitle)
	if convErr != nil {
		return movies.Movie{}, ErrNotFound
	}
	return s.SyncByTmdbID(ctx, tmdbID)
}

// SyncByTmdbID fetches details from TMDB and persists them as a local movie.
// Genres are matched by name and created when missing. A concurrent sync of
// the same title loses the insert race on the tmdb_id unique index and falls
// back to reading the winner's row.
func (s *Service) SyncByTmdbID(ctx context.Context, tmdbID int) (movies.Movie, error) {
	var existing movies.Movie
	if err := s.db.WithContext(ctx).Preload("Genres").Where("tmdb_id = ?", tmdbID).First(&existing).Error; err == nil {
		return existing, nil
	}

	details, err := s.tmdb.MovieDetails(ctx, tmdbID)
	if err != nil {
		s.logger.Warn().Err(err).Int("tmdb_id", tmdbID).Msg("TMDB details fetch failed during sync")
		return movies.Movie{}, ErrNotFound
	}

	id := details.ID
	movie := movies.Movie{
		TmdbID:     &id,
		Title:      details.Title,
		Synopsis:   details.Overview,
		PosterPath: details.PosterPath,
	}
	if year := releaseYear(details.ReleaseDate); year > 0 {
		movie.Year = &year
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ref := range details.Genres {
			genreTmdbID := ref.ID
			genre := movies.Genre{Name: ref.Name, TmdbID: &genreTmdbID}
			if err := tx.Where("name = ?", ref.Name).FirstOrCreate(&genre).Error; err != nil {
				return err
			}
			movie.Genres = append(movie.Genres, genre)
		}
		return tx.Create(&movie).Error
	})
	if err != nil {
		// Lost the race: another request synced the same movie first.
		var winner movies.Movie
		if lookupErr := s.db.WithContext(ctx).Preload("Genres").Where("tmdb_id = ?", tmdbID).First(&winner).Error; lookupErr == nil {
			return winner, nil
		}
		return movies.Movie{}, err
	}

	s.logger.Info().Int("tmdb_id", tmdbID).Str("title", movie.Title).Msg("movie synced from TMDB")
	return movie, nil
}

// MovieDetail is the single-movie shape for the detail endpoint.
type MovieDetail struct {
	ID          string   `json:"id"`
	TmdbID      *int     `json:"tmdbId,omitempty"`
	Title       string   `json:"title"`
	Year        int      `json:"year,omitempty"`
	Synopsis    string   `json:"synopsis,omitempty"`
	PosterURL   string   `json:"posterUrl,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount int      `json:"reviewCount"`
	Source      string   `json:"source"`
}

// Detail looks a movie up locally first; an unknown numeric id falls back to
// a TMDB details fetch without persisting anything.
func (s *Service) Detail(ctx context.Context, idOrTitle string) (MovieDetail, error) {
	movie, err := s.resolveLocal(ctx, idOrTitle)
	if err == nil {
		detail := MovieDetail{
			ID:        strconv.FormatUint(uint64(movie.ID), 10),
			TmdbID:    movie.TmdbID,
			Title:     movie.Title,
			Synopsis:  movie.Synopsis,
			PosterURL: s.tmdb.ImageURL(movie.PosterPath),
			Source:    SourceLocal,
		}
		if movie.Year != nil {
			detail.Year = *movie.Year
		}
		for _, g := range movie.Genres {
			detail.Genres = append(detail.Genres, g.Name)
		}

		var agg struct {
			AvgScore    *float64
			ReviewCount int
		}
		aggErr := s.db.WithContext(ctx).
			Table("reviews").
			Select("AVG(score) AS avg_score, COUNT(id) AS review_count").
			Where("movie_id = ?", movie.ID).
			Scan(&agg).Error
		if aggErr == nil {
			detail.Rating = agg.AvgScore
			detail.ReviewCount = agg.ReviewCount
		}
		return detail, nil
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Error().Err(err).Str("id", idOrTitle).Msg("local detail lookup failed")
	}

	tmdbID, convErr := strconv.Atoi(idOrTitle)
	if convErr != nil {
		return MovieDetail{}, ErrNotFound
	}
	details, extErr := s.tmdb.MovieDetails(ctx, tmdbID)
	if extErr != nil {
		return MovieDetail{}, ErrNotFound
	}

	rating := details.VoteAverage
	detail := MovieDetail{
		ID:        strconv.Itoa(details.ID),
		Title:     details.Title,
		Year:      releaseYear(details.ReleaseDate),
		Synopsis:  details.Overview,
		PosterURL: s.tmdb.ImageURL(details.PosterPath),
		Rating:    &rating,
		Source:    SourceExternal,
	}
	for _, g := range details.Genres {
		detail.Genres = append(detail.Genres, g.Name)
	}
	return detail, nil
}

// PlatformOffer is one way to watch a movie, from either source.
type PlatformOffer struct {
	Platform  string   `json:"platform"`
	LogoURL   string   `json:"logoUrl,omitempty"`
	OfferType string   `json:"offerType"`
	Price     *float64 `json:"price,omitempty"`
	Link      string   `json:"link,omitempty"`
	Source    string   `json:"source"`
}

// Platforms merges the locally curated offers with TMDB watch providers.
// Local offers win on (platform, offer type) collisions.
func (s *Service) Platforms(ctx context.Context, idOrTitle, country string) ([]PlatformOffer, error) {
	if country == "" {
		country = "ES"
	}

	movie, err := s.resolveLocal(ctx, idOrTitle)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error().Err(err).Str("id", idOrTitle).Msg("local platform lookup failed")
	}

	var offers []PlatformOffer
	seen := make(map[string]bool)
	add := func(o PlatformOffer) {
		key := strings.ToLower(o.Platform) + "|" + o.OfferType
		if seen[key] {
			return
		}
		seen[key] = true
		offers = append(offers, o)
	}

	tmdbID := 0
	if err == nil {
		var rows []struct {
			Name      string
			LogoURL   string
			OfferType string
			Price     *float64
			Link      string
		}
		rowErr := s.db.WithContext(ctx).
			Table("movie_platforms").
			Select("platforms.name, platforms.logo_url, movie_platforms.offer_type, movie_platforms.price, movie_platforms.link").
			Joins("JOIN platforms ON platforms.id = movie_platforms.platform_id").
			Where("movie_platforms.movie_id = ?", movie.ID).
			Scan(&rows).Error
		if rowErr != nil {
			s.logger.Error().Err(rowErr).Uint("movie_id", movie.ID).Msg("platform rows query failed")
		}
		for _, r := range rows {
			add(PlatformOffer{
				Platform:  r.Name,
				LogoURL:   r.LogoURL,
				OfferType: r.OfferType,
				Price:     r.Price,
				Link:      r.Link,
				Source:    SourceLocal,
			})
		}
		if movie.TmdbID != nil {
			tmdbID = *movie.TmdbID
		}
	} else if n, convErr := strconv.Atoi(idOrTitle); convErr == nil {
		tmdbID = n
	}

	if tmdbID > 0 {
		providers, provErr := s.tmdb.WatchProviders(ctx, tmdbID)
		if provErr != nil {
			s.logger.Warn().Err(provErr).Int("tmdb_id", tmdbID).Msg("watch providers fetch failed")
		} else if cp, ok := providers.Results[country]; ok {
			addProviders := func(ps []tmdb.Provider, offerType string) {
				for _, p := range ps {
					add(PlatformOffer{
						Platform:  p.ProviderName,
						LogoURL:   s.tmdb.ImageURL(p.LogoPath),
						OfferType: offerType,
						Link:      cp.Link,
						Source:    SourceExternal,
					})
				}
			}
			addProviders(cp.Flatrate, "stream")
			addProviders(cp.Rent, "rent")
			addProviders(cp.Buy, "buy")
		}
	}

	if len(offers) == 0 {
		return nil, ErrNotFound
	}
	return offers, nil
}
