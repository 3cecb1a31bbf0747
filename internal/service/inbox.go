package service

import (
	"fmt"

	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/repository"
)

type inboxService struct {
	repo   repository.Repository
	access AccessService
}

func NewInboxService(repo repository.Repository, access AccessService) InboxService {
	return &inboxService{
		repo:   repo,
		access: access,
	}
}

// ListMessages returns the unified timeline restricted to chatrooms the actor
// can read, newest first.
func (s *inboxService) ListMessages(actor models.Actor, page, limit int) ([]*models.Message, int64, error) {
	ids, err := s.access.VisibleChatroomIDs(actor)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	messages, err := s.repo.Message().ListByChatrooms(ids, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Message().CountByChatrooms(ids)
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (s *inboxService) ListInbound(actor models.Actor, page, limit int) ([]*models.InboundMessage, int64, error) {
	ids, err := s.access.VisibleChatroomIDs(actor)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	messages, err := s.repo.Inbound().ListByChatrooms(ids, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.Inbound().CountByChatrooms(ids)
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// MarkRead resets the unread counter on a thread the actor owns.
func (s *inboxService) MarkRead(actor models.Actor, assignmentID int64) error {
	if assignmentID <= 0 {
		return fmt.Errorf("%w: client_assignment_id is required", ErrValidation)
	}

	thread, err := s.repo.Assignment().GetThread(assignmentID)
	if err != nil {
		return err
	}
	if thread == nil {
		return fmt.Errorf("%w: client assignment %d", ErrNotFound, assignmentID)
	}

	if !actor.IsAdmin() && thread.LineUserID != actor.ID {
		return fmt.Errorf("%w: line belongs to another user", ErrAccessDenied)
	}

	return s.repo.Assignment().ResetUnread(assignmentID)
}
