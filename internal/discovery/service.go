package discovery

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yagocr2/FilmWhere-sub000/database"
	"github.com/yagocr2/FilmWhere-sub000/internal/infra/tmdb"
)

const (
	pageSize = 20
	// Local results at or above this count short-circuit the external call.
	localSufficient = 10
	// Title search never goes past page 2, whatever the caller asks for.
	maxSearchPage = 2
	// How many external pages a supplementation stage will scan at most.
	maxScanPages = 5
)

// Service decides, per listing request, whether to read the local store, the
// external metadata API, or both, and how the two result sets merge.
type Service struct {
	db     *gorm.DB
	tmdb   MetadataClient
	logger zerolog.Logger
}

func NewService(db *gorm.DB, client MetadataClient, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		tmdb:   client,
		logger: logger.With().Str("component", "discovery").Logger(),
	}
}

// summaryRow is the local-store projection with derived review aggregates.
type summaryRow struct {
	ID          uint
	Title       string
	Year        *int
	PosterPath  string
	Synopsis    string
	AvgScore    *float64
	ReviewCount int
}

func (s *Service) localMovies(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("movies").
		Select("movies.id, movies.title, movies.year, movies.poster_path, movies.synopsis, AVG(reviews.score) AS avg_score, COUNT(reviews.id) AS review_count").
		Joins("LEFT JOIN reviews ON reviews.movie_id = movies.id").
		Group("movies.id, movies.title, movies.year, movies.poster_path, movies.synopsis")
}

func (s *Service) fromLocal(row summaryRow) MovieSummary {
	m := MovieSummary{
		ID:          strconv.FormatUint(uint64(row.ID), 10),
		Title:       row.Title,
		PosterURL:   s.tmdb.ImageURL(row.PosterPath),
		Overview:    row.Synopsis,
		Rating:      row.AvgScore,
		ReviewCount: row.ReviewCount,
		Source:      SourceLocal,
	}
	if row.Year != nil {
		m.Year = *row.Year
	}
	return m
}

func (s *Service) fromExternal(r tmdb.MovieResult) MovieSummary {
	rating := r.VoteAverage
	return MovieSummary{
		ID:        strconv.Itoa(r.ID),
		Title:     r.Title,
		PosterURL: s.tmdb.ImageURL(r.PosterPath),
		Year:      releaseYear(r.ReleaseDate),
		Rating:    &rating,
		Overview:  r.Overview,
		Source:    SourceExternal,
	}
}

func (s *Service) mapLocal(rows []summaryRow) []MovieSummary {
	out := make([]MovieSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.fromLocal(row))
	}
	return out
}

// ImageURL resolves a stored poster fragment to a full image URL.
func (s *Service) ImageURL(path string) string {
	return s.tmdb.ImageURL(path)
}

func (s *Service) storeAvailable(ctx context.Context) bool {
	_ = ctx
	return database.Available(s.db)
}

// SearchByTitle merges local substring matches with an external title search.
// When the local store alone yields enough results the external API is not
// consulted at all.
func (s *Service) SearchByTitle(ctx context.Context, query string, page int) ([]MovieSummary, error) {
	if page < 1 {
		page = 1
	}
	if page > maxSearchPage {
		page = maxSearchPage
	}

	if !s.storeAvailable(ctx) {
		s.logger.Warn().Str("query", query).Msg("store unavailable, search served externally")
		return s.searchExternalOnly(ctx, query, page)
	}

	var local []summaryRow
	err := s.localMovies(ctx).
		Where("movies.title LIKE ?", "%"+query+"%").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&local).Error
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("local search failed, degrading to external")
		return s.searchExternalOnly(ctx, query, page)
	}

	if len(local) >= localSufficient {
		return s.mapLocal(local), nil
	}

	results := s.mapLocal(local)
	ext, err := s.tmdb.SearchMovies(ctx, query, page)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("external search failed, returning local results only")
	} else {
		room := pageSize - len(local)
		for i, r := range ext.Results {
			if i >= room {
				break
			}
			results = append(results, s.fromExternal(r))
		}
	}

	results = dedupeByTitle(results)
	if len(results) > pageSize {
		results = results[:pageSize]
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results, nil
}

func (s *Service) searchExternalOnly(ctx context.Context, query string, page int) ([]MovieSummary, error) {
	ext, err := s.tmdb.SearchMovies(ctx, query, page)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("external search failed")
		return nil, ErrNotFound
	}
	results := make([]MovieSummary, 0, pageSize)
	for i, r := range ext.Results {
		if i >= pageSize {
			break
		}
		results = append(results, s.fromExternal(r))
	}
	results = dedupeByTitle(results)
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results, nil
}

// ByGenre returns movies for a genre name. The local store is used only when
// it can satisfy the request on its own; otherwise the whole answer comes
// from the external fallback chain.
func (s *Service) ByGenre(ctx context.Context, name string, count int) ([]MovieSummary, error) {
	if count <= 0 {
		count = localSufficient
	}

	if s.storeAvailable(ctx) {
		var local []summaryRow
		err := s.localMovies(ctx).
			Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id").
			Where("LOWER(genres.name) = LOWER(?)", name).
			Order("review_count DESC").
			Limit(count).
			Find(&local).Error
		if err != nil {
			s.logger.Error().Err(err).Str("genre", name).Msg("local genre lookup failed, degrading to external")
		} else if len(local) >= min(count, localSufficient) {
			return s.mapLocal(local), nil
		}
	}

	return s.genreExternal(ctx, name, count)
}

// genreExternal accumulates candidates stage by stage, deduplicating on TMDB
// id: discovery by mapped genre id, then a plain text search, then recent
// popular titles. Whatever was gathered is returned even if a stage errors.
func (s *Service) genreExternal(ctx context.Context, name string, count int) ([]MovieSummary, error) {
	seen := make(map[int]bool)
	var collected []tmdb.MovieResult

	add := func(results []tmdb.MovieResult) {
		for _, r := range results {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			collected = append(collected, r)
		}
	}

	if genreID, ok := GenreID(name); ok {
		for page := 1; len(collected) < count*2 && page <= maxScanPages; page++ {
			res, err := s.tmdb.DiscoverByGenre(ctx, genreID, page)
			if err != nil {
				s.logger.Warn().Err(err).Str("genre", name).Int("page", page).Msg("genre discovery failed")
				break
			}
			add(res.Results)
			if len(res.Results) == 0 || page >= res.TotalPages {
				break
			}
		}
	}

	if len(collected) < count {
		res, err := s.tmdb.SearchMovies(ctx, name, 1)
		if err != nil {
			s.logger.Warn().Err(err).Str("genre", name).Msg("genre text search failed")
		} else {
			add(res.Results)
		}
	}

	if len(collected) < count {
		cutoff := time.Now().Year() - 2
		for page := 1; len(collected) < count && page <= maxScanPages; page++ {
			res, err := s.tmdb.Popular(ctx, page)
			if err != nil {
				s.logger.Warn().Err(err).Str("genre", name).Int("page", page).Msg("popular supplement failed")
				break
			}
			for _, r := range res.Results {
				if releaseYear(r.ReleaseDate) >= cutoff && !seen[r.ID] {
					seen[r.ID] = true
					collected = append(collected, r)
				}
			}
			if len(res.Results) == 0 || page >= res.TotalPages {
				break
			}
		}
	}

	if len(collected) == 0 {
		return nil, ErrNotFound
	}
	if len(collected) > count {
		collected = collected[:count]
	}

	results := make([]MovieSummary, 0, len(collected))
	for _, r := range collected {
		results = append(results, s.fromExternal(r))
	}
	return dedupeByTitle(results), nil
}

// Recent lists movies for a release year, defaulting to the current one.
// Local rows come back newest-inserted first; when they fall short the
// external API supplements the list.
func (s *Service) Recent(ctx context.Context, year, count int) ([]MovieSummary, error) {
	if year <= 0 {
		year = time.Now().Year()
	}
	if count <= 0 {
		count = pageSize
	}

	var local []summaryRow
	if s.storeAvailable(ctx) {
		err := s.localMovies(ctx).
			Where("movies.year = ?", year).
			Order("movies.id DESC").
			Limit(count).
			Find(&local).Error
		if err != nil {
			s.logger.Error().Err(err).Int("year", year).Msg("local year lookup failed, degrading to external")
			local = nil
		}
	}

	if len(local) >= min(count, localSufficient) {
		return s.mapLocal(local), nil
	}

	seen := make(map[int]bool)
	var ext []tmdb.MovieResult
	for page := 1; len(local)+len(ext) < count && page <= maxScanPages; page++ {
		res, err := s.tmdb.Popular(ctx, page)
		if err != nil {
			s.logger.Warn().Err(err).Int("year", year).Int("page", page).Msg("popular year scan failed")
			break
		}
		for _, r := range res.Results {
			if releaseYear(r.ReleaseDate) == year && !seen[r.ID] {
				seen[r.ID] = true
				ext = append(ext, r)
			}
		}
		if len(res.Results) == 0 || page >= res.TotalPages {
			break
		}
	}
	if len(local)+len(ext) < count {
		for page := 1; len(local)+len(ext) < count && page <= maxScanPages; page++ {
			res, err := s.tmdb.DiscoverByYear(ctx, year, page)
			if err != nil {
				s.logger.Warn().Err(err).Int("year", year).Int("page", page).Msg("year discovery failed")
				break
			}
			for _, r := range res.Results {
				if !seen[r.ID] {
					seen[r.ID] = true
					ext = append(ext, r)
				}
			}
			if len(res.Results) == 0 || page >= res.TotalPages {
				break
			}
		}
	}

	if len(local) == 0 {
		// Pure external answer: newest releases first.
		sort.Slice(ext, func(i, j int) bool {
			return ext[i].ReleaseDate > ext[j].ReleaseDate
		})
	}

	results := s.mapLocal(local)
	for _, r := range ext {
		results = append(results, s.fromExternal(r))
	}
	results = dedupeByTitle(results)
	if len(results) > count {
		results = results[:count]
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results, nil
}

// Popular returns the popular listing. A concrete year targets the local
// store first and returns immediately when it has anything; everything else
// accumulates external popular pages until count items are gathered.
func (s *Service) Popular(ctx context.Context, page, year, count int) ([]MovieSummary, error) {
	if page < 1 {
		page = 1
	}
	if count <= 0 {
		count = pageSize
	}

	if year > 0 && s.storeAvailable(ctx) {
		var local []summaryRow
		err := s.localMovies(ctx).
			Where("movies.year = ?", year).
			Order("review_count DESC").
			Offset((page - 1) * count).
			Limit(count).
			Find(&local).Error
		if err != nil {
			s.logger.Error().Err(err).Int("year", year).Msg("local popular lookup failed, degrading to external")
		} else if len(local) > 0 {
			return s.mapLocal(local), nil
		}
	}

	seen := make(map[int]bool)
	var collected []tmdb.MovieResult
	for p := page; len(collected) < count && p < page+maxScanPages; p++ {
		res, err := s.tmdb.Popular(ctx, p)
		if err != nil {
			s.logger.Warn().Err(err).Int("page", p).Msg("external popular failed")
			break
		}
		for _, r := range res.Results {
			if !seen[r.ID] {
				seen[r.ID] = true
				collected = append(collected, r)
			}
		}
		if len(res.Results) == 0 || p >= res.TotalPages {
			break
		}
	}

	if len(collected) == 0 {
		return nil, ErrNotFound
	}
	if len(collected) > count {
		collected = collected[:count]
	}
	results := make([]MovieSummary, 0, len(collected))
	for _, r := range collected {
		results = append(results, s.fromExternal(r))
	}
	return results, nil
}

// TopRated is a straight external passthrough; the local store keeps no
// comparable global ranking.
func (s *Service) TopRated(ctx context.Context, page int) ([]MovieSummary, error) {
	res, err := s.tmdb.TopRated(ctx, page)
	if err != nil {
		s.logger.Error().Err(err).Int("page", page).Msg("external top-rated failed")
		return nil, ErrNotFound
	}
	results := make([]MovieSummary, 0, len(res.Results))
	for _, r := range res.Results {
		results = append(results, s.fromExternal(r))
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results, nil
}
