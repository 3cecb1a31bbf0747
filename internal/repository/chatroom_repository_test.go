package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlinehq/chatline/internal/repository"
)

func TestChatroomRepository_GetBySenderAddress(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewChatroomRepository(db)

	providerID := seedProvider(t, db, "twilio")
	senderID := seedSenderNumber(t, db, &providerID, "+15550001111")

	older := seedChatroom(t, db, &senderID, "older", time.Now().Add(-time.Hour))
	newer := seedChatroom(t, db, &senderID, "newer", time.Now())

	t.Run("newest binding first", func(t *testing.T) {
		chatrooms, err := repo.GetBySenderAddress("+15550001111")
		require.NoError(t, err)
		require.Len(t, chatrooms, 2)
		assert.Equal(t, newer, chatrooms[0].ID)
		assert.Equal(t, older, chatrooms[1].ID)
	})

	t.Run("inactive chatrooms excluded", func(t *testing.T) {
		_, err := db.Exec(`UPDATE chatrooms SET is_active = FALSE WHERE id = $1`, newer)
		require.NoError(t, err)
		defer func() {
			_, err := db.Exec(`UPDATE chatrooms SET is_active = TRUE WHERE id = $1`, newer)
			require.NoError(t, err)
		}()

		chatrooms, err := repo.GetBySenderAddress("+15550001111")
		require.NoError(t, err)
		require.Len(t, chatrooms, 1)
		assert.Equal(t, older, chatrooms[0].ID)
	})

	t.Run("unknown address matches nothing", func(t *testing.T) {
		chatrooms, err := repo.GetBySenderAddress("+19990000000")
		require.NoError(t, err)
		assert.Empty(t, chatrooms)
	})

	t.Run("match is exact not prefix", func(t *testing.T) {
		chatrooms, err := repo.GetBySenderAddress("+1555000")
		require.NoError(t, err)
		assert.Empty(t, chatrooms)
	})
}

func TestChatroomRepository_Route(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewChatroomRepository(db)

	t.Run("complete chain", func(t *testing.T) {
		providerID := seedProvider(t, db, "twilio")
		senderID := seedSenderNumber(t, db, &providerID, "+15550002222")
		chatroomID := seedChatroom(t, db, &senderID, "routed", time.Now())

		route, err := repo.Route(chatroomID)
		require.NoError(t, err)
		require.NotNil(t, route)

		assert.Equal(t, chatroomID, route.ChatroomID)
		assert.True(t, route.ChatroomActive)
		assert.Equal(t, "+15550002222", route.FromNumber.String)
		assert.Equal(t, "twilio", route.ProviderKind.String)
		assert.True(t, route.ProviderActive.Bool)
		assert.Equal(t, "AC1", route.Credentials["accountSid"])
	})

	t.Run("chatroom without sender number", func(t *testing.T) {
		chatroomID := seedChatroom(t, db, nil, "unbound", time.Now())

		route, err := repo.Route(chatroomID)
		require.NoError(t, err)
		require.NotNil(t, route)

		assert.False(t, route.SenderNumberID.Valid)
		assert.False(t, route.ProviderID.Valid)
	})

	t.Run("sender number without provider", func(t *testing.T) {
		senderID := seedSenderNumber(t, db, nil, "+15550003333")
		chatroomID := seedChatroom(t, db, &senderID, "half-bound", time.Now())

		route, err := repo.Route(chatroomID)
		require.NoError(t, err)
		require.NotNil(t, route)

		assert.True(t, route.SenderNumberID.Valid)
		assert.Equal(t, "+15550003333", route.FromNumber.String)
		assert.False(t, route.ProviderID.Valid)
	})

	t.Run("missing chatroom", func(t *testing.T) {
		route, err := repo.Route(99999)
		require.NoError(t, err)
		assert.Nil(t, route)
	})
}

func TestChatroomRepository_AllIDs(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewChatroomRepository(db)
	a := seedChatroom(t, db, nil, "a", time.Now())
	b := seedChatroom(t, db, nil, "b", time.Now())

	ids, err := repo.AllIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{a, b}, ids)
}
