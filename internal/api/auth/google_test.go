package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yagocr2/FilmWhere-sub000/internal/domain/users"
)

func TestFindOrCreateGoogleUserCreatesAccount(t *testing.T) {
	env := newTestEnv(t)
	handler := &Handler{db: env.db}

	user, err := handler.findOrCreateGoogleUser(&googleIDClaims{
		Sub:   "sub-123",
		Email: "newcomer@gmail.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "newcomer", user.UserName)
	assert.Equal(t, "google", user.AuthProvider)
	assert.True(t, user.IsVerified, "google accounts arrive verified")
	assert.Nil(t, user.Password)
	require.NotNil(t, user.GoogleSub)
	assert.Equal(t, "sub-123", *user.GoogleSub)
}

func TestFindOrCreateGoogleUserLinksExistingEmail(t *testing.T) {
	env := newTestEnv(t)
	existing := seedVerifiedUser(t, env.db, "alice", "alice@gmail.com", "secret1234")
	handler := &Handler{db: env.db}

	user, err := handler.findOrCreateGoogleUser(&googleIDClaims{
		Sub:   "sub-alice",
		Email: "alice@gmail.com",
	})
	require.NoError(t, err)

	assert.Equal(t, existing.ID, user.ID, "same email links instead of duplicating")
	require.NotNil(t, user.GoogleSub)
	assert.Equal(t, "sub-alice", *user.GoogleSub)

	var count int64
	env.db.Model(&users.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestFindOrCreateGoogleUserReturningVisit(t *testing.T) {
	env := newTestEnv(t)
	handler := &Handler{db: env.db}

	first, err := handler.findOrCreateGoogleUser(&googleIDClaims{Sub: "sub-9", Email: "repeat@gmail.com"})
	require.NoError(t, err)
	second, err := handler.findOrCreateGoogleUser(&googleIDClaims{Sub: "sub-9", Email: "repeat@gmail.com"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestAvailableUserNameCounters(t *testing.T) {
	env := newTestEnv(t)
	handler := &Handler{db: env.db}

	seedVerifiedUser(t, env.db, "carol", "carol@other.test", "secret1234")

	name := handler.availableUserName("carol@gmail.com")
	assert.Equal(t, "carol1", name, "taken names get a numeric suffix")

	name = handler.availableUserName("ab@gmail.com")
	assert.NotEqual(t, "ab", name, "too-short local parts get a generated base")
	assert.GreaterOrEqual(t, len(name), 3)
}
