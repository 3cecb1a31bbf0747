package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chatlinehq/chatline/internal/models"
)

type chatroomRepository struct {
	db *sqlx.DB
}

func NewChatroomRepository(db *sqlx.DB) ChatroomRepository {
	return &chatroomRepository{
		db: db,
	}
}

// GetBySenderAddress matches the inbound destination address against bound
// sender numbers by exact string equality. Duplicate bindings are a
// configuration defect; the newest chatroom wins and the caller gets a second
// row so it can log the conflict.
func (r *chatroomRepository) GetBySenderAddress(address string) ([]*models.Chatroom, error) {
	query := `
		SELECT c.id, c.name, c.provider_type, c.sender_number_id, c.is_active, c.created_at
		FROM chatrooms c
		JOIN sender_numbers sn ON sn.id = c.sender_number_id
		WHERE sn.number_or_id = $1 AND c.is_active
		ORDER BY c.created_at DESC
		LIMIT 2
	`

	var chatrooms []*models.Chatroom
	if err := r.db.Select(&chatrooms, query, address); err != nil {
		return nil, fmt.Errorf("failed to get chatrooms by sender address: %w", err)
	}

	return chatrooms, nil
}

func (r *chatroomRepository) GetByID(id int64) (*models.Chatroom, error) {
	query := `
		SELECT id, name, provider_type, sender_number_id, is_active, created_at
		FROM chatrooms
		WHERE id = $1
	`

	var chatroom models.Chatroom
	err := r.db.Get(&chatroom, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chatroom: %w", err)
	}

	return &chatroom, nil
}

// AllIDs lists every chatroom id; admin list views are unfiltered.
func (r *chatroomRepository) AllIDs() ([]int64, error) {
	var ids []int64
	if err := r.db.Select(&ids, `SELECT id FROM chatrooms`); err != nil {
		return nil, fmt.Errorf("failed to list chatroom ids: %w", err)
	}

	return ids, nil
}

// Route loads the full ownership chain for a chatroom in one query. The
// sender number and provider account are left-joined so missing links come
// back as NULLs rather than a missing row.
func (r *chatroomRepository) Route(chatroomID int64) (*models.Route, error) {
	query := `
		SELECT c.id                 AS chatroom_id,
		       c.name               AS chatroom_name,
		       c.is_active          AS chatroom_active,
		       sn.id                AS sender_number_id,
		       sn.number_or_id      AS from_number,
		       sn.channel_type      AS channel_type,
		       sn.is_active         AS sender_active,
		       pa.id                AS provider_id,
		       pa.kind              AS provider_kind,
		       pa.is_active         AS provider_active,
		       COALESCE(pa.credentials, '{}'::jsonb) AS credentials
		FROM chatrooms c
		LEFT JOIN sender_numbers sn ON sn.id = c.sender_number_id
		LEFT JOIN api_providers pa ON pa.id = sn.api_provider_id
		WHERE c.id = $1
	`

	var route models.Route
	err := r.db.Get(&route, query, chatroomID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve chatroom route: %w", err)
	}

	return &route, nil
}
