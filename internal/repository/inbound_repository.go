package repository

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chatlinehq/chatline/internal/models"
)

type inboundRepository struct {
	db *sqlx.DB
}

func NewInboundRepository(db *sqlx.DB) InboundRepository {
	return &inboundRepository{
		db: db,
	}
}

// Create stores the raw inbound event. This write is authoritative; the
// mirrored timeline copy is written separately and is best-effort.
func (r *inboundRepository) Create(msg *models.InboundMessage) (int64, error) {
	query := `
		INSERT INTO inbound_messages (from_number, chatroom_id, content, external_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(query, msg.FromNumber, msg.ChatroomID, msg.Content, msg.ExternalID, time.Now()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create inbound message: %w", err)
	}

	return id, nil
}

func (r *inboundRepository) ListByChatrooms(chatroomIDs []int64, offset, limit int) ([]*models.InboundMessage, error) {
	if len(chatroomIDs) == 0 {
		return []*models.InboundMessage{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, from_number, chatroom_id, content, external_id, created_at
		FROM inbound_messages
		WHERE chatroom_id IN (?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, chatroomIDs, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to build inbound query: %w", err)
	}

	var messages []*models.InboundMessage
	if err := r.db.Select(&messages, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list inbound messages: %w", err)
	}

	return messages, nil
}

// CountByChatrooms returns the total inbound record count for the given
// chatrooms.
func (r *inboundRepository) CountByChatrooms(chatroomIDs []int64) (int64, error) {
	if len(chatroomIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`SELECT COUNT(*) FROM inbound_messages WHERE chatroom_id IN (?)`, chatroomIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to build inbound count query: %w", err)
	}

	var count int64
	if err := r.db.Get(&count, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to count inbound messages: %w", err)
	}

	return count, nil
}
