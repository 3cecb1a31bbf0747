package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/provider"
	"github.com/chatlinehq/chatline/internal/repository"
)

type providerAdminService struct {
	repo     repository.Repository
	registry *provider.Registry
}

func NewProviderAdminService(repo repository.Repository, registry *provider.Registry) ProviderAdminService {
	return &providerAdminService{
		repo:     repo,
		registry: registry,
	}
}

func (s *providerAdminService) List(actor models.Actor) ([]*models.ProviderAccount, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: provider accounts are admin-only", ErrAccessDenied)
	}

	return s.repo.Provider().List()
}

// Create stores a provider account. The free-text name is resolved into an
// explicit kind exactly once, here; message flow never inspects names again.
func (s *providerAdminService) Create(actor models.Actor, providerType, providerName string, creds models.CredentialsMap) (*models.ProviderAccount, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: provider accounts are admin-only", ErrAccessDenied)
	}
	if providerType == "" || providerName == "" || len(creds) == 0 {
		return nil, fmt.Errorf("%w: provider_type, provider_name and credentials are required", ErrValidation)
	}

	kind, err := provider.DetectKind(providerName)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown provider %q", ErrValidation, providerName)
	}

	account := &models.ProviderAccount{
		ProviderType: providerType,
		ProviderName: providerName,
		Kind:         string(kind),
		Credentials:  creds,
		IsActive:     true,
	}

	id, err := s.repo.Provider().Create(account)
	if err != nil {
		return nil, err
	}

	account.ID = id
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt

	return account, nil
}

func (s *providerAdminService) TestConnection(ctx context.Context, providerName string, creds models.CredentialsMap) (*provider.TestResult, error) {
	kind, err := provider.DetectKind(providerName)
	if err != nil {
		return &provider.TestResult{OK: false, Message: "unknown provider"}, nil
	}

	sender, err := s.registry.Sender(kind)
	if err != nil {
		return &provider.TestResult{OK: false, Message: "no adapter for provider"}, nil
	}

	result, err := sender.TestConnection(ctx, creds)
	if err != nil {
		return &provider.TestResult{OK: false, Message: err.Error()}, nil
	}

	return result, nil
}
