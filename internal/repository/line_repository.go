package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chatlinehq/chatline/internal/models"
)

type lineRepository struct {
	db *sqlx.DB
}

func NewLineRepository(db *sqlx.DB) LineRepository {
	return &lineRepository{
		db: db,
	}
}

func (r *lineRepository) GetByID(id int64) (*models.Line, error) {
	query := `
		SELECT id, user_id, real_number, label, assigned_chatroom_id, daily_limit, is_active, created_at
		FROM lines
		WHERE id = $1
	`

	var line models.Line
	err := r.db.Get(&line, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get line: %w", err)
	}

	return &line, nil
}
