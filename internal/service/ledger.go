package service

import (
	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/repository"
)

type ledgerService struct {
	repo repository.Repository
}

func NewLedgerService(repo repository.Repository) LedgerService {
	return &ledgerService{
		repo: repo,
	}
}

// Debit charges one credit. The repository performs a single conditional
// decrement, so concurrent sends at balance=1 cannot both succeed.
func (s *ledgerService) Debit(actor models.Actor) (Credit, error) {
	if actor.IsAdmin() {
		return Credit{Unlimited: true}, nil
	}

	ok, err := s.repo.Token().Debit(actor.ID)
	if err != nil {
		return Credit{}, err
	}
	if !ok {
		return Credit{}, ErrInsufficientCredit
	}

	remaining, err := s.repo.Token().Balance(actor.ID)
	if err != nil {
		return Credit{}, err
	}

	return Credit{Remaining: remaining}, nil
}

func (s *ledgerService) Balance(actor models.Actor) (Credit, error) {
	if actor.IsAdmin() {
		return Credit{Unlimited: true}, nil
	}

	remaining, err := s.repo.Token().Balance(actor.ID)
	if err != nil {
		return Credit{}, err
	}

	return Credit{Remaining: remaining}, nil
}
