package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yagocr2/FilmWhere-sub000/database"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/movies"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/reviews"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/social"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/users"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	handler := NewHandler(db)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if v := c.GetHeader("X-Test-User"); v != "" {
			id, _ := strconv.Atoi(v)
			c.Set("user_id", uint(id))
		}
	})
	router.GET("/me", handler.Me)
	router.PUT("/me", handler.UpdateMe)
	router.GET("/api/users/:username", handler.PublicProfile)

	return &testEnv{db: db, router: router}
}

func (e *testEnv) do(method, path, body string, userID uint) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User", strconv.FormatUint(uint64(userID), 10))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedUser(t *testing.T, name string) users.User {
	t.Helper()
	u := users.User{UserName: name, Email: name + "@filmwhere.test", Role: users.RoleUser, IsVerified: true}
	require.NoError(t, e.db.Create(&u).Error)
	return u
}

func TestMeIncludesCountsAndEmail(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")

	year := 2020
	movie := movies.Movie{Title: "Dune", Year: &year}
	require.NoError(t, env.db.Create(&movie).Error)
	require.NoError(t, env.db.Create(&reviews.Review{UserID: alice.ID, MovieID: movie.ID, Score: 8}).Error)
	require.NoError(t, env.db.Create(&social.Favorite{UserID: alice.ID, MovieID: movie.ID}).Error)
	require.NoError(t, env.db.Create(&social.Follow{FollowerID: alice.ID, FollowedID: bob.ID}).Error)
	require.NoError(t, env.db.Create(&social.Follow{FollowerID: bob.ID, FollowedID: alice.ID}).Error)

	w := env.do(http.MethodGet, "/me", "", alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var profile ProfileDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "alice", profile.UserName)
	assert.Equal(t, "alice@filmwhere.test", profile.Email)
	assert.Equal(t, int64(1), profile.ReviewCount)
	assert.Equal(t, int64(1), profile.FavoriteCount)
	assert.Equal(t, int64(1), profile.FollowerCount)
	assert.Equal(t, int64(1), profile.FollowingCount)
}

func TestUpdateMe(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")

	w := env.do(http.MethodPut, "/me", `{"bio": "film person", "avatarUrl": "https://img/a.png", "birthDate": "1991-07-20"}`, alice.ID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored users.User
	require.NoError(t, env.db.First(&stored, alice.ID).Error)
	assert.Equal(t, "film person", stored.Bio)
	assert.Equal(t, "https://img/a.png", stored.AvatarURL)
	require.NotNil(t, stored.BirthDate)
	assert.Equal(t, 1991, stored.BirthDate.Year())
}

func TestUpdateMePartial(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")
	require.NoError(t, env.db.Model(&users.User{}).Where("id = ?", alice.ID).Update("bio", "keep me").Error)

	// Only the avatar is sent; the bio stays.
	w := env.do(http.MethodPut, "/me", `{"avatarUrl": "https://img/new.png"}`, alice.ID)
	require.Equal(t, http.StatusOK, w.Code)

	var stored users.User
	require.NoError(t, env.db.First(&stored, alice.ID).Error)
	assert.Equal(t, "keep me", stored.Bio)
	assert.Equal(t, "https://img/new.png", stored.AvatarURL)
}

func TestUpdateMeEmptyBody(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")

	w := env.do(http.MethodPut, "/me", `{}`, alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateMeBadBirthDate(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, "alice")

	w := env.do(http.MethodPut, "/me", `{"birthDate": "20-07-1991"}`, alice.ID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicProfileHidesPrivateFields(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice")

	w := env.do(http.MethodGet, "/api/users/alice", "", 0)
	require.Equal(t, http.StatusOK, w.Code)

	assert.NotContains(t, w.Body.String(), "alice@filmwhere.test", "email never leaks on public profiles")
	assert.NotContains(t, w.Body.String(), `"role"`)
}

func TestPublicProfileBannedLooksAbsent(t *testing.T) {
	env := newTestEnv(t)
	troll := env.seedUser(t, "troll")
	require.NoError(t, env.db.Model(&users.User{}).Where("id = ?", troll.ID).Update("is_banned", true).Error)

	w := env.do(http.MethodGet, "/api/users/troll", "", 0)
	assert.Equal(t, http.StatusNotFound, w.Code, "banned profiles are indistinguishable from missing ones")
}

func TestPublicProfileUnknown(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/users/ghost", "", 0)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
