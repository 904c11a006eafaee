package discovery

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/yagocr2/FilmWhere-sub000/internal/infra/tmdb"
)

// ErrNotFound is returned only when every consulted source came back empty.
// Partial failures along the way degrade to the next source instead.
var ErrNotFound = errors.New("no movies found")

// MetadataClient is the slice of the TMDB client the orchestrator needs.
type MetadataClient interface {
	SearchMovies(ctx context.Context, query string, page int) (tmdb.PagedResults, error)
	Popular(ctx context.Context, page int) (tmdb.PagedResults, error)
	TopRated(ctx context.Context, page int) (tmdb.PagedResults, error)
	DiscoverByGenre(ctx context.Context, genreID, page int) (tmdb.PagedResults, error)
	DiscoverByYear(ctx context.Context, year, page int) (tmdb.PagedResults, error)
	MovieDetails(ctx context.Context, id int) (tmdb.MovieDetails, error)
	WatchProviders(ctx context.Context, id int) (tmdb.WatchProvidersResponse, error)
	ImageURL(path string) string
}

// MovieSummary is the merged shape every listing endpoint returns. ID holds
// the local row id for locally sourced entries and the TMDB id otherwise;
// ResolveMovie knows how to take either back.
type MovieSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	PosterURL   string   `json:"posterUrl,omitempty"`
	Year        int      `json:"year,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Overview    string   `json:"overview,omitempty"`
	ReviewCount int      `json:"reviewCount,omitempty"`
	Source      string   `json:"source"`
}

const (
	SourceLocal    = "local"
	SourceExternal = "tmdb"
)

// dedupeByTitle drops entries whose title already appeared earlier in the
// list, compared case-insensitively. First occurrence wins, which is why
// callers always append local results before external ones.
func dedupeByTitle(in []MovieSummary) []MovieSummary {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, m := range in {
		key := strings.ToLower(m.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
