package discovery

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yagocr2/FilmWhere-sub000/internal/domain/movies"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/reviews"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/users"
	"github.com/yagocr2/FilmWhere-sub000/internal/infra/tmdb"
)

func TestResolveMovieLocalIDWinsOverTmdbID(t *testing.T) {
	svc, fake, db := newTestService(t)

	alpha := seedMovie(t, db, "Alpha", 2001, nil)
	// A second row whose TMDB id collides with alpha's primary key.
	collidingID := int(alpha.ID)
	seedMovie(t, db, "Beta", 2002, &collidingID)

	got, err := svc.ResolveMovie(context.Background(), strconv.Itoa(collidingID))
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Title, "primary key probe runs before the tmdb_id probe")
	assert.Equal(t, 0, fake.detailCalls)
}

func TestResolveMovieByTmdbID(t *testing.T) {
	svc, fake, db := newTestService(t)

	tmdbID := 98765
	m := seedMovie(t, db, "Gamma", 2003, &tmdbID)

	got, err := svc.ResolveMovie(context.Background(), "98765")
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, 0, fake.detailCalls, "a local tmdb_id hit must not reach the external API")
}

func TestResolveMovieByTitleFragment(t *testing.T) {
	svc, _, db := newTestService(t)

	m := seedMovie(t, db, "The Quiet Place", 2018, nil)

	got, err := svc.ResolveMovie(context.Background(), "quiet")
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
}

func TestResolveMovieUnknownTitle(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ResolveMovie(context.Background(), "no such movie")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveMovieSyncsUnknownNumericID(t *testing.T) {
	svc, fake, db := newTestService(t)

	fake.details[777] = tmdb.MovieDetails{
		ID:          777,
		Title:       "Synced Film",
		Overview:    "came from outside",
		PosterPath:  "/synced.jpg",
		ReleaseDate: "2020-05-01",
		Genres: []tmdb.GenreRef{
			{ID: 18, Name: "Drama"},
			{ID: 35, Name: "Comedia"},
		},
	}

	got, err := svc.ResolveMovie(context.Background(), "777")
	require.NoError(t, err)
	assert.Equal(t, "Synced Film", got.Title)
	require.NotNil(t, got.TmdbID)
	assert.Equal(t, 777, *got.TmdbID)
	require.NotNil(t, got.Year)
	assert.Equal(t, 2020, *got.Year)
	assert.Len(t, got.Genres, 2)

	var count int64
	require.NoError(t, db.Model(&movies.Movie{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Second resolution hits the persisted row, no second fetch.
	again, err := svc.ResolveMovie(context.Background(), "777")
	require.NoError(t, err)
	assert.Equal(t, got.ID, again.ID)
	assert.Equal(t, 1, fake.detailCalls)
}

func TestSyncByTmdbIDReusesExistingGenres(t *testing.T) {
	svc, fake, db := newTestService(t)

	require.NoError(t, db.Create(&movies.Genre{Name: "Drama"}).Error)

	fake.details[123] = tmdb.MovieDetails{
		ID:          123,
		Title:       "Reuse",
		ReleaseDate: "2019-01-01",
		Genres:      []tmdb.GenreRef{{ID: 18, Name: "Drama"}},
	}

	_, err := svc.SyncByTmdbID(context.Background(), 123)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&movies.Genre{}).Where("name = ?", "Drama").Count(&count).Error)
	assert.Equal(t, int64(1), count, "matching by name must not duplicate the genre")
}

func TestDetailLocalWithAggregates(t *testing.T) {
	svc, _, db := newTestService(t)

	m := seedMovie(t, db, "Scored Movie", 2015, nil)
	for i, score := range []int{6, 8} {
		u := users.User{UserName: "rater" + strconv.Itoa(i), Email: "rater" + strconv.Itoa(i) + "@x.io"}
		require.NoError(t, db.Create(&u).Error)
		require.NoError(t, db.Create(&reviews.Review{UserID: u.ID, MovieID: m.ID, Score: score}).Error)
	}

	detail, err := svc.Detail(context.Background(), strconv.FormatUint(uint64(m.ID), 10))
	require.NoError(t, err)

	assert.Equal(t, SourceLocal, detail.Source)
	assert.Equal(t, 2, detail.ReviewCount)
	require.NotNil(t, detail.Rating)
	assert.InDelta(t, 7.0, *detail.Rating, 0.001)
}

func TestDetailExternalDoesNotPersist(t *testing.T) {
	svc, fake, db := newTestService(t)

	fake.details[888] = tmdb.MovieDetails{
		ID:          888,
		Title:       "Passing Through",
		ReleaseDate: "2022-10-10",
		VoteAverage: 8.1,
		Genres:      []tmdb.GenreRef{{ID: 27, Name: "Terror"}},
	}

	detail, err := svc.Detail(context.Background(), "888")
	require.NoError(t, err)

	assert.Equal(t, SourceExternal, detail.Source)
	assert.Equal(t, "Passing Through", detail.Title)
	assert.Equal(t, []string{"Terror"}, detail.Genres)

	var count int64
	require.NoError(t, db.Model(&movies.Movie{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "detail lookups must not sync the movie")
}

func TestPlatformsLocalWinsOnCollision(t *testing.T) {
	svc, fake, db := newTestService(t)

	tmdbID := 42
	m := seedMovie(t, db, "Watchable", 2021, &tmdbID)

	netflix := movies.Platform{Name: "Netflix", LogoURL: "https://local/netflix.png"}
	require.NoError(t, db.Create(&netflix).Error)
	price := 0.0
	require.NoError(t, db.Create(&movies.MoviePlatform{
		MovieID:    m.ID,
		PlatformID: netflix.ID,
		OfferType:  movies.OfferStream,
		Price:      &price,
		Link:       "https://netflix.example/watch",
	}).Error)

	fake.providers[42] = tmdb.WatchProvidersResponse{
		ID: 42,
		Results: map[string]tmdb.CountryProviders{
			"ES": {
				Link:     "https://tmdb.example/42",
				Flatrate: []tmdb.Provider{{ProviderID: 8, ProviderName: "Netflix", LogoPath: "/n.png"}},
				Rent:     []tmdb.Provider{{ProviderID: 2, ProviderName: "Apple TV", LogoPath: "/a.png"}},
			},
		},
	}

	offers, err := svc.Platforms(context.Background(), strconv.FormatUint(uint64(m.ID), 10), "")
	require.NoError(t, err)

	require.Len(t, offers, 2)
	assert.Equal(t, "Netflix", offers[0].Platform)
	assert.Equal(t, SourceLocal, offers[0].Source, "the curated offer shadows the provider entry")
	assert.Equal(t, "Apple TV", offers[1].Platform)
	assert.Equal(t, SourceExternal, offers[1].Source)
}

func TestPlatformsExternalOnlyForUnknownNumericID(t *testing.T) {
	svc, fake, _ := newTestService(t)

	fake.providers[99] = tmdb.WatchProvidersResponse{
		ID: 99,
		Results: map[string]tmdb.CountryProviders{
			"ES": {
				Link: "https://tmdb.example/99",
				Buy:  []tmdb.Provider{{ProviderID: 3, ProviderName: "Google Play", LogoPath: "/g.png"}},
			},
		},
	}

	offers, err := svc.Platforms(context.Background(), "99", "ES")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "buy", offers[0].OfferType)
	assert.Equal(t, SourceExternal, offers[0].Source)
}

func TestPlatformsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Platforms(context.Background(), "nowhere", "ES")
	assert.ErrorIs(t, err, ErrNotFound)
}
