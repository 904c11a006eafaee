package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/yagocr2/FilmWhere-sub000/config"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrMovieNotFound = errors.New("movie not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// ImageURL resolves a poster path fragment to a full image URL. An empty
// fragment stays empty; absolute URLs pass through unchanged.
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	if len(path) > 4 && path[:4] == "http" {
		return path
	}
	return c.config.ImageBaseURL + path
}

// SearchMovies searches for movies by title.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (PagedResults, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	return c.listRequest(ctx, "/search/movie", params, page)
}

// Popular returns the popular listing for the given page.
func (c *Client) Popular(ctx context.Context, page int) (PagedResults, error) {
	return c.listRequest(ctx, "/movie/popular", url.Values{}, page)
}

// TopRated returns the top-rated listing for the given page.
func (c *Client) TopRated(ctx context.Context, page int) (PagedResults, error) {
	return c.listRequest(ctx, "/movie/top_rated", url.Values{}, page)
}

// DiscoverByGenre pages through the discovery endpoint filtered by genre id.
func (c *Client) DiscoverByGenre(ctx context.Context, genreID, page int) (PagedResults, error) {
	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("sort_by", "popularity.desc")
	return c.listRequest(ctx, "/discover/movie", params, page)
}

// DiscoverByYear pages through the discovery endpoint filtered by release year.
func (c *Client) DiscoverByYear(ctx context.Context, year, page int) (PagedResults, error) {
	params := url.Values{}
	params.Set("primary_release_year", strconv.Itoa(year))
	params.Set("sort_by", "primary_release_date.desc")
	return c.listRequest(ctx, "/discover/movie", params, page)
}

// MovieDetails fetches full details for one movie.
func (c *Client) MovieDetails(ctx context.Context, id int) (MovieDetails, error) {
	var details MovieDetails
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", id), url.Values{}, &details); err != nil {
		return MovieDetails{}, err
	}
	return details, nil
}

// WatchProviders fetches streaming/rental availability for one movie.
func (c *Client) WatchProviders(ctx context.Context, id int) (WatchProvidersResponse, error) {
	var providers WatchProvidersResponse
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d/watch/providers", id), url.Values{}, &providers); err != nil {
		return WatchProvidersResponse{}, err
	}
	return providers, nil
}

func (c *Client) listRequest(ctx context.Context, path string, params url.Values, page int) (PagedResults, error) {
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))

	var response PagedResults
	if err := c.doRequest(ctx, path, params, &response); err != nil {
		return PagedResults{}, err
	}

	c.logger.Debug().
		Str("path", path).
		Int("page", page).
		Int("results", len(response.Results)).
		Msg("TMDB list request completed")

	return response, nil
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values, out any) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	params.Set("api_key", c.config.APIKey)
	endpoint := c.config.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build TMDB request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("TMDB request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrMovieNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("TMDB returned non-OK status")
		return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode TMDB response: %w", err)
	}
	return nil
}
