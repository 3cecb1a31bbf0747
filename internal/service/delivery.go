package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chatlinehq/chatline/internal/events"
	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/repository"
)

type deliveryService struct {
	repo   repository.Repository
	events events.Publisher
	logger *zap.Logger
}

func NewDeliveryService(repo repository.Repository, publisher events.Publisher, logger *zap.Logger) DeliveryService {
	return &deliveryService{
		repo:   repo,
		events: publisher,
		logger: logger,
	}
}

// HandleStatusCallback applies a provider delivery report to the message that
// carries the external id. Only forward transitions are applied; anything
// else is acknowledged and dropped so provider retries stay harmless.
func (s *deliveryService) HandleStatusCallback(ctx context.Context, externalID, providerStatus string) (bool, error) {
	if externalID == "" || providerStatus == "" {
		return false, fmt.Errorf("%w: message id and status are required", ErrValidation)
	}

	var status models.MessageStatus
	switch strings.ToLower(providerStatus) {
	case "delivered":
		status = models.MessageStatusDelivered
	case "read":
		status = models.MessageStatusRead
	default:
		// Intermediate provider states (queued, sending, sent) carry no new
		// information for the timeline.
		s.logger.Debug("Ignoring provider status",
			zap.String("externalID", externalID),
			zap.String("status", providerStatus))
		return false, nil
	}

	updated, err := s.repo.Message().UpdateDeliveryStatus(externalID, status)
	if err != nil {
		return false, err
	}
	if !updated {
		s.logger.Info("Delivery callback matched no eligible message",
			zap.String("externalID", externalID),
			zap.String("status", string(status)))
		return false, nil
	}

	env := events.Envelope{
		Meta: events.Meta{Type: events.KeyMessageDelivered, CorrelationID: externalID},
		Data: events.MessageEvent{
			Direction:  string(models.DirectionOutbound),
			Status:     string(status),
			ExternalID: externalID,
		},
	}
	if err := s.events.Publish(ctx, events.KeyMessageDelivered, env); err != nil {
		s.logger.Warn("Failed to publish delivery event", zap.Error(err))
	}

	return true, nil
}
