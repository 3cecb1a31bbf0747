package service

import (
	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/repository"
)

type accessService struct {
	repo repository.Repository
}

func NewAccessService(repo repository.Repository) AccessService {
	return &accessService{
		repo: repo,
	}
}

// CanAccessChatroom grants admins unconditionally; everyone else needs a
// direct membership row.
func (s *accessService) CanAccessChatroom(actor models.Actor, chatroomID int64) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}

	return s.repo.Access().IsMember(actor.ID, chatroomID)
}

// VisibleChatroomIDs returns the chatrooms whose content the actor may read.
func (s *accessService) VisibleChatroomIDs(actor models.Actor) ([]int64, error) {
	if actor.IsAdmin() {
		return s.repo.Chatroom().AllIDs()
	}

	return s.repo.Access().ChatroomIDs(actor.ID)
}
