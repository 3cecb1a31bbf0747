package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chatlinehq/chatline/internal/models"
)

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepository{
		db: db,
	}
}

// Ensure creates the contact if no row exists for (chatroom_id, phone_number).
// The unique index makes concurrent calls race-free: exactly one insert wins
// and everyone gets the same id back.
func (r *contactRepository) Ensure(contact *models.Contact) (int64, bool, error) {
	insert := `
		INSERT INTO contacts (name, phone_number, email, chatroom_id, owner_user_id, added_via, is_favorite, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (chatroom_id, phone_number) DO NOTHING
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(insert,
		contact.Name, contact.PhoneNumber, contact.Email, contact.ChatroomID,
		contact.OwnerUserID, contact.AddedVia, contact.IsFavorite, time.Now(),
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("failed to ensure contact: %w", err)
	}

	// Conflict: somebody else holds the row.
	query := `SELECT id FROM contacts WHERE chatroom_id = $1 AND phone_number = $2`
	if err := r.db.Get(&id, query, contact.ChatroomID, contact.PhoneNumber); err != nil {
		return 0, false, fmt.Errorf("failed to look up existing contact: %w", err)
	}

	return id, false, nil
}

func (r *contactRepository) GetByID(id int64) (*models.Contact, error) {
	query := `
		SELECT id, name, phone_number, email, chatroom_id, owner_user_id, added_via, is_favorite, created_at
		FROM contacts
		WHERE id = $1
	`

	var contact models.Contact
	err := r.db.Get(&contact, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return &contact, nil
}
