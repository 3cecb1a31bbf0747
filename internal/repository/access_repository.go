package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

type accessRepository struct {
	db *sqlx.DB
}

func NewAccessRepository(db *sqlx.DB) AccessRepository {
	return &accessRepository{
		db: db,
	}
}

// IsMember reports whether the user holds a direct assignment to the
// chatroom. There are no inherited or hierarchical grants.
func (r *accessRepository) IsMember(userID string, chatroomID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_chatrooms WHERE user_id = $1 AND chatroom_id = $2)`

	var exists bool
	if err := r.db.Get(&exists, query, userID, chatroomID); err != nil {
		return false, fmt.Errorf("failed to check chatroom membership: %w", err)
	}

	return exists, nil
}

// ChatroomIDs returns every chatroom the user is assigned to, for read-side
// filtering of list views.
func (r *accessRepository) ChatroomIDs(userID string) ([]int64, error) {
	query := `SELECT chatroom_id FROM user_chatrooms WHERE user_id = $1`

	var ids []int64
	if err := r.db.Select(&ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user chatrooms: %w", err)
	}

	return ids, nil
}
