package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{
		db: db,
	}
}

// Debit decrements the balance by one if and only if at least one credit
// remains. The conditional UPDATE is the whole concurrency story: two
// simultaneous debits at balance=1 contend on the row and exactly one
// matches the predicate.
func (r *tokenRepository) Debit(userID string) (bool, error) {
	query := `
		UPDATE user_tokens
		SET balance = balance - 1, updated_at = $2
		WHERE user_id = $1 AND balance >= 1
	`

	res, err := r.db.Exec(query, userID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to debit token: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return rows > 0, nil
}

// Balance returns the current credit for a user; a missing row reads as zero.
func (r *tokenRepository) Balance(userID string) (int64, error) {
	query := `SELECT balance FROM user_tokens WHERE user_id = $1`

	var balance int64
	err := r.db.Get(&balance, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get token balance: %w", err)
	}

	return balance, nil
}

// Grant adds credit, creating the ledger row on first use.
func (r *tokenRepository) Grant(userID string, amount int64) error {
	query := `
		INSERT INTO user_tokens (user_id, balance, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = user_tokens.balance + EXCLUDED.balance, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(query, userID, amount, time.Now()); err != nil {
		return fmt.Errorf("failed to grant tokens: %w", err)
	}

	return nil
}
