package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"github.com/chatlinehq/chatline/internal/models"
)

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) AssignmentRepository {
	return &assignmentRepository{
		db: db,
	}
}

// GetThread loads a client assignment joined with its line and contact.
func (r *assignmentRepository) GetThread(id int64) (*models.AssignmentThread, error) {
	query := `
		SELECT ca.id             AS assignment_id,
		       ca.contact_id     AS contact_id,
		       ct.phone_number   AS contact_number,
		       ct.name           AS contact_name,
		       ct.email          AS contact_email,
		       l.id              AS line_id,
		       l.user_id         AS line_user_id,
		       l.real_number     AS line_number,
		       l.is_active       AS line_active,
		       l.assigned_chatroom_id AS chatroom_id
		FROM client_assignments ca
		JOIN lines l ON l.id = ca.line_id
		JOIN contacts ct ON ct.id = ca.contact_id
		WHERE ca.id = $1
	`

	var thread models.AssignmentThread
	err := r.db.Get(&thread, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment thread: %w", err)
	}

	return &thread, nil
}

// Create binds a contact to a line unless the thread already exists.
func (r *assignmentRepository) Create(lineID, contactID int64) (int64, bool, error) {
	insert := `
		INSERT INTO client_assignments (line_id, contact_id, status, unread_count, created_at)
		VALUES ($1, $2, 'active', 0, $3)
		ON CONFLICT (line_id, contact_id) DO NOTHING
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(insert, lineID, contactID, time.Now()).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("failed to create client assignment: %w", err)
	}

	query := `SELECT id FROM client_assignments WHERE line_id = $1 AND contact_id = $2`
	if err := r.db.Get(&id, query, lineID, contactID); err != nil {
		return 0, false, fmt.Errorf("failed to look up existing assignment: %w", err)
	}

	return id, false, nil
}

// TouchLastMessage refreshes the thread summary after a send. The content is
// truncated so list views stay cheap; the cut lands on a rune boundary since
// Postgres rejects invalid UTF-8.
func (r *assignmentRepository) TouchLastMessage(id int64, content string) error {
	if len(content) > 200 {
		cut := 200
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}

	query := `
		UPDATE client_assignments
		SET last_message_at = $2, last_message_content = $3
		WHERE id = $1
	`

	if _, err := r.db.Exec(query, id, time.Now(), content); err != nil {
		return fmt.Errorf("failed to touch assignment summary: %w", err)
	}

	return nil
}

func (r *assignmentRepository) ResetUnread(id int64) error {
	query := `UPDATE client_assignments SET unread_count = 0 WHERE id = $1`

	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to reset unread count: %w", err)
	}

	return nil
}

// IncrementUnreadForContact bumps every thread that carries the contact, so
// an inbound message becomes visible in the mini-chatroom list views.
func (r *assignmentRepository) IncrementUnreadForContact(contactID int64) error {
	query := `
		UPDATE client_assignments
		SET unread_count = unread_count + 1, last_message_at = $2
		WHERE contact_id = $1
	`

	if _, err := r.db.Exec(query, contactID, time.Now()); err != nil {
		return fmt.Errorf("failed to increment unread count: %w", err)
	}

	return nil
}
