package repository_test

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/repository"
)

func TestInboundRepository_ListAndCount(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := repository.NewInboundRepository(db)
	roomA := seedChatroom(t, db, nil, "a", time.Now())
	roomB := seedChatroom(t, db, nil, "b", time.Now())

	for i := 0; i < 5; i++ {
		_, err := repo.Create(&models.InboundMessage{
			FromNumber: "+15551234567",
			ChatroomID: roomA,
			Content:    fmt.Sprintf("msg %d", i),
			ExternalID: sql.NullString{String: fmt.Sprintf("ib-%d", i), Valid: true},
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(&models.InboundMessage{
		FromNumber: "+15551234567",
		ChatroomID: roomB,
		Content:    "other room",
	})
	require.NoError(t, err)

	// The count covers all records, not just the requested page.
	messages, err := repo.ListByChatrooms([]int64{roomA}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, messages, 2)

	total, err := repo.CountByChatrooms([]int64{roomA})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	total, err = repo.CountByChatrooms(nil)
	require.NoError(t, err)
	assert.Zero(t, total)
}
