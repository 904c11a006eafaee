package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yagocr2/FilmWhere-sub000/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.TMDBConfig{
		APIKey:       "test-key",
		BaseURL:      baseURL,
		ImageBaseURL: "https://image.tmdb.org/t/p/w500",
		Timeout:      5,
	}, zerolog.Nop())
}

func TestSearchMoviesSendsQueryAndPage(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 2,
			"results": [
				{"id": 603, "title": "The Matrix", "release_date": "1999-03-30", "vote_average": 8.2}
			],
			"total_pages": 5,
			"total_results": 100
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res, err := client.SearchMovies(context.Background(), "matrix", 2)
	require.NoError(t, err)

	assert.Equal(t, "/search/movie", gotPath)
	assert.Equal(t, []string{"matrix"}, gotQuery["query"])
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"test-key"}, gotQuery["api_key"])
	assert.Equal(t, []string{"false"}, gotQuery["include_adult"])

	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 5, res.TotalPages)
	require.Len(t, res.Results, 1)
	assert.Equal(t, 603, res.Results[0].ID)
	assert.Equal(t, "The Matrix", res.Results[0].Title)
}

func TestDiscoverByGenreParams(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"page": 1, "results": [], "total_pages": 0, "total_results": 0}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.DiscoverByGenre(context.Background(), 28, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"28"}, gotQuery["with_genres"])
	assert.Equal(t, []string{"popularity.desc"}, gotQuery["sort_by"])
	assert.Equal(t, []string{"1"}, gotQuery["page"], "page below 1 is normalized to 1")
}

func TestMovieDetailsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.MovieDetails(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestRateLimitedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Popular(context.Background(), 1)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestServerErrorWrapsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.TopRated(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAPIError)
}

func TestUnconfiguredClient(t *testing.T) {
	client := NewClient(config.TMDBConfig{}, zerolog.Nop())
	assert.False(t, client.IsConfigured())

	_, err := client.SearchMovies(context.Background(), "anything", 1)
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestWatchProvidersDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603/watch/providers", r.URL.Path)
		w.Write([]byte(`{
			"id": 603,
			"results": {
				"ES": {
					"link": "https://www.themoviedb.org/movie/603/watch?locale=ES",
					"flatrate": [{"provider_id": 8, "provider_name": "Netflix", "logo_path": "/n.jpg"}],
					"rent": [{"provider_id": 2, "provider_name": "Apple TV", "logo_path": "/a.jpg"}]
				}
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res, err := client.WatchProviders(context.Background(), 603)
	require.NoError(t, err)

	es, ok := res.Results["ES"]
	require.True(t, ok)
	require.Len(t, es.Flatrate, 1)
	assert.Equal(t, "Netflix", es.Flatrate[0].ProviderName)
	require.Len(t, es.Rent, 1)
	assert.Equal(t, "Apple TV", es.Rent[0].ProviderName)
}

func TestImageURL(t *testing.T) {
	client := newTestClient("http://unused")

	assert.Equal(t, "", client.ImageURL(""))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", client.ImageURL("/poster.jpg"))
	assert.Equal(t, "https://cdn.example/full.jpg", client.ImageURL("https://cdn.example/full.jpg"))
}
