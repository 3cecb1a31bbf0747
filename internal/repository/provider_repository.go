package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chatlinehq/chatline/internal/models"
)

type providerRepository struct {
	db *sqlx.DB
}

func NewProviderRepository(db *sqlx.DB) ProviderRepository {
	return &providerRepository{
		db: db,
	}
}

func (r *providerRepository) List() ([]*models.ProviderAccount, error) {
	query := `
		SELECT id, provider_type, provider_name, kind, credentials, is_active, created_at, updated_at
		FROM api_providers
		ORDER BY created_at DESC
	`

	var accounts []*models.ProviderAccount
	if err := r.db.Select(&accounts, query); err != nil {
		return nil, fmt.Errorf("failed to list provider accounts: %w", err)
	}

	return accounts, nil
}

func (r *providerRepository) GetByID(id int64) (*models.ProviderAccount, error) {
	query := `
		SELECT id, provider_type, provider_name, kind, credentials, is_active, created_at, updated_at
		FROM api_providers
		WHERE id = $1
	`

	var account models.ProviderAccount
	err := r.db.Get(&account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider account: %w", err)
	}

	return &account, nil
}

func (r *providerRepository) Create(account *models.ProviderAccount) (int64, error) {
	query := `
		INSERT INTO api_providers (provider_type, provider_name, kind, credentials, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(query,
		account.ProviderType, account.ProviderName, account.Kind,
		account.Credentials, account.IsActive, time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create provider account: %w", err)
	}

	return id, nil
}
