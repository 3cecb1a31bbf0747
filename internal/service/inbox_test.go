package service_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/service"
)

func TestInboxService_ListMessages(t *testing.T) {
	repo := newFakeRepo()
	repo.access.members["user-1"] = []int64{1}
	repo.message.list = []*models.Message{{ID: 5}, {ID: 4}}
	repo.message.total = 12

	inbox := service.NewInboxService(repo, service.NewAccessService(repo))

	messages, total, err := inbox.ListMessages(models.Actor{ID: "user-1", Role: models.RoleUser}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
	assert.Equal(t, int64(12), total)
}

func TestInboxService_ListInbound(t *testing.T) {
	repo := newFakeRepo()
	repo.access.members["user-1"] = []int64{1}
	repo.inbound.list = []*models.InboundMessage{{ID: 5}, {ID: 4}}
	repo.inbound.total = 12

	inbox := service.NewInboxService(repo, service.NewAccessService(repo))

	// The total is the full record count, not the page size.
	messages, total, err := inbox.ListInbound(models.Actor{ID: "user-1", Role: models.RoleUser}, 2, 2)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
	assert.Equal(t, int64(12), total)
}

func TestInboxService_MarkRead(t *testing.T) {
	thread := &models.AssignmentThread{
		AssignmentID: 42,
		LineUserID:   "user-1",
		LineActive:   true,
		ChatroomID:   sql.NullInt64{Int64: 1, Valid: true},
	}

	t.Run("owner resets unread", func(t *testing.T) {
		repo := newFakeRepo()
		repo.assignment.threads[42] = thread

		inbox := service.NewInboxService(repo, service.NewAccessService(repo))
		err := inbox.MarkRead(models.Actor{ID: "user-1", Role: models.RoleUser}, 42)
		require.NoError(t, err)
		assert.Equal(t, []int64{42}, repo.assignment.resets)
	})

	t.Run("foreign thread denied", func(t *testing.T) {
		repo := newFakeRepo()
		repo.assignment.threads[42] = thread

		inbox := service.NewInboxService(repo, service.NewAccessService(repo))
		err := inbox.MarkRead(models.Actor{ID: "user-2", Role: models.RoleUser}, 42)
		assert.ErrorIs(t, err, service.ErrAccessDenied)
		assert.Empty(t, repo.assignment.resets)
	})

	t.Run("admin may reset any thread", func(t *testing.T) {
		repo := newFakeRepo()
		repo.assignment.threads[42] = thread

		inbox := service.NewInboxService(repo, service.NewAccessService(repo))
		err := inbox.MarkRead(models.Actor{ID: "admin", Role: models.RoleAdmin}, 42)
		assert.NoError(t, err)
	})

	t.Run("unknown thread", func(t *testing.T) {
		repo := newFakeRepo()

		inbox := service.NewInboxService(repo, service.NewAccessService(repo))
		err := inbox.MarkRead(models.Actor{ID: "user-1", Role: models.RoleUser}, 42)
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestImportService_ImportToLine(t *testing.T) {
	line := &models.Line{
		ID:                 3,
		UserID:             "user-1",
		RealNumber:         "+15550009999",
		AssignedChatroomID: sql.NullInt64{Int64: 1, Valid: true},
		IsActive:           true,
	}

	entries := []*models.ResourceEntry{
		{ID: 100, PhoneNumber: "+15551110001", FirstName: sql.NullString{String: "Ada", Valid: true}},
		{ID: 101, PhoneNumber: "+15551110002"},
	}

	t.Run("imports assigned entries", func(t *testing.T) {
		repo := newFakeRepo()
		repo.line.lines[3] = line
		repo.resource.entries = entries

		imports := service.NewImportService(repo, zap.NewNop())
		result, err := imports.ImportToLine(models.Actor{ID: "user-1", Role: models.RoleUser}, 3, []int64{100, 101})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 0, result.Skipped)

		// Contacts named from the entry; bare numbers fall back to the number.
		require.Len(t, repo.contact.created, 2)
		assert.Equal(t, "Ada", repo.contact.created[0].Name)
		assert.Equal(t, "+15551110002", repo.contact.created[1].Name)

		require.Len(t, repo.resource.imported, 1)
		assert.Equal(t, []int64{100, 101}, repo.resource.imported[0])
	})

	t.Run("repeat import skips existing threads", func(t *testing.T) {
		repo := newFakeRepo()
		repo.line.lines[3] = line
		repo.resource.entries = entries

		imports := service.NewImportService(repo, zap.NewNop())
		actor := models.Actor{ID: "user-1", Role: models.RoleUser}

		_, err := imports.ImportToLine(actor, 3, []int64{100, 101})
		require.NoError(t, err)

		result, err := imports.ImportToLine(actor, 3, []int64{100, 101})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Imported)
		assert.Equal(t, 2, result.Skipped)
	})

	t.Run("foreign line denied", func(t *testing.T) {
		repo := newFakeRepo()
		repo.line.lines[3] = line

		imports := service.NewImportService(repo, zap.NewNop())
		_, err := imports.ImportToLine(models.Actor{ID: "user-2", Role: models.RoleUser}, 3, []int64{100})
		assert.ErrorIs(t, err, service.ErrAccessDenied)
	})

	t.Run("unassigned resources denied", func(t *testing.T) {
		repo := newFakeRepo()
		repo.line.lines[3] = line
		repo.resource.entries = entries[:1]

		imports := service.NewImportService(repo, zap.NewNop())
		_, err := imports.ImportToLine(models.Actor{ID: "user-1", Role: models.RoleUser}, 3, []int64{100, 101})
		assert.ErrorIs(t, err, service.ErrAccessDenied)
	})

	t.Run("line without chatroom", func(t *testing.T) {
		repo := newFakeRepo()
		repo.line.lines[3] = &models.Line{ID: 3, UserID: "user-1", IsActive: true}

		imports := service.NewImportService(repo, zap.NewNop())
		_, err := imports.ImportToLine(models.Actor{ID: "user-1", Role: models.RoleUser}, 3, []int64{100})
		assert.True(t, service.IsIncompleteRouting(err))
	})
}
