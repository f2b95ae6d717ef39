package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrefaceCoding/BlogCloneProject/app/models"
)

func TestUserRepository(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		users := store.Users()
		alice := seedUser(t, store, "alice")
		bob := seedUser(t, store, "bob")

		got, err := users.GetByID(alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "hash", got.PasswordHash)

		got, err = users.GetByUsername("bob")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, got.ID)

		_, err = users.GetByUsername("carol")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = users.GetByID(9999)
		assert.ErrorIs(t, err, ErrNotFound)

		err = users.Create(&models.User{Username: "alice", PasswordHash: "other", CreatedAt: base})
		assert.ErrorIs(t, err, ErrDuplicate)

		all, err := users.List()
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "alice", all[0].Username)
		assert.Equal(t, "bob", all[1].Username)
	})
}

func TestSessionRepository(t *testing.T) {
	forEachStore(t, func(t *testing.T, store Store) {
		user := seedUser(t, store, "alice")
		sessions := store.Sessions()
		expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

		require.NoError(t, sessions.Create(&models.Session{Token: "tok", UserID: user.ID, ExpiresAt: expires}))

		got, err := sessions.Get("tok")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.UserID)
		assert.True(t, got.ExpiresAt.Equal(expires))

		_, err = sessions.Get("unknown")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, sessions.Delete("tok"))
		_, err = sessions.Get("tok")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, sessions.Delete("tok"))
	})
}

func TestBadgerSessionRepositoryRejectsExpired(t *testing.T) {
	store, err := OpenBadger("", nil)
	require.NoError(t, err)
	defer store.Close()

	err = store.Sessions().Create(&models.Session{Token: "old", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)})
	assert.Error(t, err)
}
