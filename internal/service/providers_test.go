package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/provider"
	"github.com/chatlinehq/chatline/internal/provider/mocks"
	"github.com/chatlinehq/chatline/internal/service"
)

func TestProviderAdminService_Create(t *testing.T) {
	admin := models.Actor{ID: "admin", Role: models.RoleAdmin}
	registry := provider.NewRegistryWith(nil)

	t.Run("kind resolved once from the name", func(t *testing.T) {
		repo := newFakeRepo()
		svc := service.NewProviderAdminService(repo, registry)

		account, err := svc.Create(admin, "sms", "Twilio US production", models.CredentialsMap{"accountSid": "AC1", "authToken": "x"})
		require.NoError(t, err)

		assert.Equal(t, "twilio", account.Kind)
		assert.NotZero(t, account.ID)
		require.Len(t, repo.provider.accounts, 1)
		assert.Equal(t, "twilio", repo.provider.accounts[0].Kind)
	})

	t.Run("infobip detection", func(t *testing.T) {
		repo := newFakeRepo()
		svc := service.NewProviderAdminService(repo, registry)

		account, err := svc.Create(admin, "sms", "INFOBIP backup", models.CredentialsMap{"apiKey": "k", "baseUrl": "https://api.infobip.com"})
		require.NoError(t, err)
		assert.Equal(t, "infobip", account.Kind)
	})

	t.Run("unknown name rejected", func(t *testing.T) {
		repo := newFakeRepo()
		svc := service.NewProviderAdminService(repo, registry)

		_, err := svc.Create(admin, "sms", "Carrier Pigeon Ltd", models.CredentialsMap{"k": "v"})
		assert.ErrorIs(t, err, service.ErrValidation)
		assert.Empty(t, repo.provider.accounts)
	})

	t.Run("non-admin denied", func(t *testing.T) {
		repo := newFakeRepo()
		svc := service.NewProviderAdminService(repo, registry)

		_, err := svc.Create(models.Actor{ID: "user-1", Role: models.RoleUser}, "sms", "Twilio", models.CredentialsMap{"k": "v"})
		assert.ErrorIs(t, err, service.ErrAccessDenied)
	})
}

func TestProviderAdminService_List(t *testing.T) {
	repo := newFakeRepo()
	repo.provider.accounts = []*models.ProviderAccount{{ID: 1, Kind: "twilio"}}
	svc := service.NewProviderAdminService(repo, provider.NewRegistryWith(nil))

	accounts, err := svc.List(models.Actor{ID: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	_, err = svc.List(models.Actor{ID: "user-1", Role: models.RoleUser})
	assert.ErrorIs(t, err, service.ErrAccessDenied)
}

func TestProviderAdminService_TestConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)

	registry := provider.NewRegistryWith(map[provider.Kind]provider.Sender{
		provider.KindTwilio: sender,
	})

	repo := newFakeRepo()
	svc := service.NewProviderAdminService(repo, registry)

	creds := models.CredentialsMap{"accountSid": "AC1", "authToken": "x"}

	sender.EXPECT().
		TestConnection(gomock.Any(), provider.Credentials(creds)).
		Return(&provider.TestResult{OK: true, Message: "connection successful"}, nil)

	result, err := svc.TestConnection(context.Background(), "Twilio prod", creds)
	require.NoError(t, err)
	assert.True(t, result.OK)

	// Unknown names never reach an adapter and never error the endpoint.
	result, err = svc.TestConnection(context.Background(), "Carrier Pigeon", creds)
	require.NoError(t, err)
	assert.False(t, result.OK)
}
