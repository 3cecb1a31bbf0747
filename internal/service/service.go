package service

import (
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/chatlinehq/chatline/internal/config"
	"github.com/chatlinehq/chatline/internal/events"
	"github.com/chatlinehq/chatline/internal/provider"
	"github.com/chatlinehq/chatline/internal/repository"
)

type Service struct {
	Inbound   InboundService
	Outbound  OutboundService
	Delivery  DeliveryService
	Access    AccessService
	Ledger    LedgerService
	Inbox     InboxService
	Imports   ImportService
	Providers ProviderAdminService
	Health    HealthService

	breaker *provider.Breaker
}

func NewService(
	cfg *config.Config,
	repo repository.Repository,
	redisClient *redis.Client,
	registry *provider.Registry,
	publisher events.Publisher,
	logger *zap.Logger,
) *Service {
	breaker := provider.NewBreaker(&cfg.Provider.CircuitBreaker, logger)

	accessService := NewAccessService(repo)
	ledgerService := NewLedgerService(repo)
	deduper := NewRedisDeduper(redisClient)
	extIDs := NewRedisExternalIDCache(redisClient)

	outboundService := NewOutboundService(repo, accessService, ledgerService, registry, breaker, extIDs, publisher, logger)
	inboundService := NewInboundService(repo, deduper, publisher, logger)
	deliveryService := NewDeliveryService(repo, publisher, logger)
	inboxService := NewInboxService(repo, accessService)
	importService := NewImportService(repo, logger)
	providerAdminService := NewProviderAdminService(repo, registry)
	healthService := NewHealthService(repo, redisClient, breaker)

	return &Service{
		Inbound:   inboundService,
		Outbound:  outboundService,
		Delivery:  deliveryService,
		Access:    accessService,
		Ledger:    ledgerService,
		Inbox:     inboxService,
		Imports:   importService,
		Providers: providerAdminService,
		Health:    healthService,
		breaker:   breaker,
	}
}
