package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chatlinehq/chatline/internal/models"
)

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

// Create inserts a new message on the unified timeline and returns its id.
func (r *messageRepository) Create(msg *models.Message) (int64, error) {
	query := `
		INSERT INTO messages (direction, from_number, to_number, content, channel_type,
		                      status, read, chatroom_id, client_assignment_id, user_id,
		                      external_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING id
	`

	now := time.Now()
	var id int64
	err := r.db.QueryRow(query,
		msg.Direction, msg.FromNumber, msg.ToNumber, msg.Content, msg.ChannelType,
		msg.Status, msg.Read, msg.ChatroomID, msg.ClientAssignmentID, msg.UserID,
		msg.ExternalID, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create message: %w", err)
	}

	return id, nil
}

// UpdateStatus updates the status of a message.
func (r *messageRepository) UpdateStatus(id int64, status models.MessageStatus, externalID *string, errorMsg *string) error {
	query := `
		UPDATE messages
		SET status = $2,
		    external_id = COALESCE($3, external_id),
		    error = $4,
		    sent_at = $5,
		    updated_at = $6
		WHERE id = $1
	`

	var sentAt sql.NullTime
	if status == models.MessageStatusSent {
		sentAt = sql.NullTime{
			Time:  time.Now(),
			Valid: true,
		}
	}

	var extID sql.NullString
	if externalID != nil {
		extID = sql.NullString{String: *externalID, Valid: true}
	}

	var errMsg sql.NullString
	if errorMsg != nil {
		errMsg = sql.NullString{String: *errorMsg, Valid: true}
	}

	_, err := r.db.Exec(query, id, status, extID, errMsg, sentAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update message status: %w", err)
	}

	return nil
}

// UpdateDeliveryStatus advances an outbound message by provider message id.
// The WHERE clause only admits forward transitions (sent -> delivered -> read)
// so redelivered or out-of-order callbacks cannot regress the state machine.
func (r *messageRepository) UpdateDeliveryStatus(externalID string, status models.MessageStatus) (bool, error) {
	query := `
		UPDATE messages
		SET status = $2, updated_at = $3
		WHERE external_id = $1
		  AND direction = 'outbound'
		  AND (
		        (status = 'sent' AND $2 IN ('delivered', 'read'))
		     OR (status = 'delivered' AND $2 = 'read')
		  )
	`

	res, err := r.db.Exec(query, externalID, status, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to update delivery status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows > 0, nil
}

// ListByChatrooms retrieves timeline messages for the given chatrooms with
// pagination, newest first.
func (r *messageRepository) ListByChatrooms(chatroomIDs []int64, offset, limit int) ([]*models.Message, error) {
	if len(chatroomIDs) == 0 {
		return []*models.Message{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, direction, from_number, to_number, content, channel_type, status, read,
		       chatroom_id, client_assignment_id, user_id, external_id, error,
		       created_at, sent_at, updated_at
		FROM messages
		WHERE chatroom_id IN (?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, chatroomIDs, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to build messages query: %w", err)
	}

	var messages []*models.Message
	if err := r.db.Select(&messages, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

// CountByChatrooms returns the total timeline size for the given chatrooms.
func (r *messageRepository) CountByChatrooms(chatroomIDs []int64) (int64, error) {
	if len(chatroomIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`SELECT COUNT(*) FROM messages WHERE chatroom_id IN (?)`, chatroomIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := r.db.Get(&count, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}

	return count, nil
}
