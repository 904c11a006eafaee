package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yagocr2/FilmWhere-sub000/internal/infra/tmdb"
)

// newDownService wires the orchestrator to a store whose every ping fails,
// simulating an unreachable database.
func newDownService(t *testing.T) (*Service, *fakeClient) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 8; i++ {
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	fake := &fakeClient{}
	return NewService(db, fake, zerolog.Nop()), fake
}

func TestSearchDegradesToExternalWhenStoreDown(t *testing.T) {
	svc, fake := newDownService(t)

	fake.searchPages = [][]tmdb.MovieResult{{
		ext(1, "Only External", "2020-01-01"),
	}}

	results, err := svc.SearchByTitle(context.Background(), "external", 1)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, SourceExternal, results[0].Source)
	assert.Equal(t, 1, fake.searchCalls)
}

func TestByGenreDegradesToExternalWhenStoreDown(t *testing.T) {
	svc, fake := newDownService(t)

	fake.genrePages = [][]tmdb.MovieResult{{
		ext(2, "External Action", "2019-06-01"),
	}}

	results, err := svc.ByGenre(context.Background(), "action", 1)
	require.NoError(t, err)

	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, SourceExternal, r.Source)
	}
}

func TestRecentDegradesToExternalWhenStoreDown(t *testing.T) {
	svc, fake := newDownService(t)

	fake.yearPages = [][]tmdb.MovieResult{{
		ext(3, "External Release", "2024-08-01"),
	}}

	results, err := svc.Recent(context.Background(), 2024, 1)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, SourceExternal, results[0].Source)
}
