package service

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/repository"
)

type importService struct {
	repo   repository.Repository
	logger *zap.Logger
}

func NewImportService(repo repository.Repository, logger *zap.Logger) ImportService {
	return &importService{
		repo:   repo,
		logger: logger,
	}
}

// ImportToLine materializes assigned resource-pool entries into contacts and
// client assignments on the actor's line. Entries already bound to the line
// are skipped, so repeated imports are harmless.
func (s *importService) ImportToLine(actor models.Actor, lineID int64, resourceIDs []int64) (*ImportResult, error) {
	if lineID <= 0 || len(resourceIDs) == 0 {
		return nil, fmt.Errorf("%w: line id and resource ids are required", ErrValidation)
	}

	line, err := s.repo.Line().GetByID(lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, fmt.Errorf("%w: line %d", ErrNotFound, lineID)
	}
	if !actor.IsAdmin() && line.UserID != actor.ID {
		return nil, fmt.Errorf("%w: line belongs to another user", ErrAccessDenied)
	}
	if !line.AssignedChatroomID.Valid {
		return nil, &IncompleteRoutingError{Link: "line is not linked to a chatroom"}
	}

	entries, err := s.repo.Resource().ListAssigned(actor.ID, resourceIDs)
	if err != nil {
		return nil, err
	}
	if len(entries) != len(resourceIDs) {
		return nil, fmt.Errorf("%w: some resources are not assigned to you or do not exist", ErrAccessDenied)
	}

	result := &ImportResult{}
	imported := make([]int64, 0, len(entries))

	for _, entry := range entries {
		name := entry.PhoneNumber
		if entry.FirstName.Valid && entry.FirstName.String != "" {
			name = entry.FirstName.String
		}

		contactID, _, err := s.repo.Contact().Ensure(&models.Contact{
			Name:        name,
			PhoneNumber: entry.PhoneNumber,
			ChatroomID:  line.AssignedChatroomID.Int64,
			OwnerUserID: sql.NullString{String: actor.ID, Valid: true},
			AddedVia:    models.ContactSourceImport,
		})
		if err != nil {
			s.logger.Warn("Failed to materialize contact from resource",
				zap.Int64("resourceID", entry.ID),
				zap.Error(err))
			continue
		}

		_, created, err := s.repo.Assignment().Create(lineID, contactID)
		if err != nil {
			s.logger.Warn("Failed to create client assignment",
				zap.Int64("resourceID", entry.ID),
				zap.Int64("contactID", contactID),
				zap.Error(err))
			continue
		}

		if created {
			result.Imported++
			imported = append(imported, entry.ID)
		} else {
			result.Skipped++
		}
	}

	if err := s.repo.Resource().MarkImported(imported); err != nil {
		s.logger.Warn("Failed to mark resources imported", zap.Error(err))
	}

	return result, nil
}
