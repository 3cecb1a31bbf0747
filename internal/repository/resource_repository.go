package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chatlinehq/chatline/internal/models"
)

type resourceRepository struct {
	db *sqlx.DB
}

func NewResourceRepository(db *sqlx.DB) ResourceRepository {
	return &resourceRepository{
		db: db,
	}
}

// ListAssigned returns the requested pool entries that are assigned to the
// user. A caller asking for entries it does not own simply gets fewer rows
// back; the service treats a count mismatch as denial.
func (r *resourceRepository) ListAssigned(userID string, ids []int64) ([]*models.ResourceEntry, error) {
	if len(ids) == 0 {
		return []*models.ResourceEntry{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, phone_number, first_name, assigned_to_user_id, imported, created_at
		FROM resource_pool
		WHERE id IN (?) AND assigned_to_user_id = ?
	`, ids, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build resource query: %w", err)
	}

	var entries []*models.ResourceEntry
	if err := r.db.Select(&entries, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list assigned resources: %w", err)
	}

	return entries, nil
}

func (r *resourceRepository) MarkImported(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE resource_pool SET imported = TRUE WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("failed to build mark-imported query: %w", err)
	}

	if _, err := r.db.Exec(r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to mark resources imported: %w", err)
	}

	return nil
}
