package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chatlinehq/chatline/internal/events"
	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/repository"
)

type inboundService struct {
	repo    repository.Repository
	deduper Deduper
	events  events.Publisher
	logger  *zap.Logger
}

func NewInboundService(
	repo repository.Repository,
	deduper Deduper,
	publisher events.Publisher,
	logger *zap.Logger,
) InboundService {
	return &inboundService{
		repo:    repo,
		deduper: deduper,
		events:  publisher,
		logger:  logger,
	}
}

// Resolve turns a provider delivery callback into stored conversation state:
// it matches the destination address to a chatroom, auto-creates the contact,
// persists the authoritative inbound record and mirrors it onto the unified
// timeline. The inbound insert is the only required write; everything after
// it degrades to a logged warning.
func (s *inboundService) Resolve(ctx context.Context, event InboundEvent) (*InboundResult, error) {
	from := strings.TrimSpace(event.From)
	to := strings.TrimSpace(event.To)
	body := strings.TrimSpace(event.Body)

	if from == "" || to == "" || body == "" {
		return nil, fmt.Errorf("%w: from, to and body are required", ErrValidation)
	}

	// Providers redeliver. When they hand us an id, running twice for the
	// same id must not duplicate conversation state; without an id we stay
	// duplicate-tolerant. This is only the read side: the id is recorded
	// after the inbound insert succeeds, so a failed write is redelivered
	// rather than dropped as a duplicate.
	if event.ProviderMessageID != "" {
		seen, err := s.deduper.Seen(ctx, event.ProviderMessageID)
		if err != nil {
			s.logger.Warn("Dedup check failed, proceeding without it",
				zap.String("externalID", event.ProviderMessageID),
				zap.Error(err))
		} else if seen {
			s.logger.Info("Duplicate inbound delivery ignored",
				zap.String("externalID", event.ProviderMessageID))
			return &InboundResult{Duplicate: true}, nil
		}
	}

	chatrooms, err := s.repo.Chatroom().GetBySenderAddress(to)
	if err != nil {
		return nil, err
	}
	if len(chatrooms) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnroutableDestination, to)
	}
	if len(chatrooms) > 1 {
		// Duplicate sender-number bindings are a configuration defect, but
		// dropping the message is worse than misrouting it: the newest
		// chatroom wins.
		s.logger.Warn("Multiple chatrooms bound to sender number, routing to newest",
			zap.String("senderNumber", to),
			zap.Int64("chosenChatroomID", chatrooms[0].ID))
	}
	chatroom := chatrooms[0]

	contactID, created, err := s.repo.Contact().Ensure(&models.Contact{
		Name:        "Unknown",
		PhoneNumber: from,
		ChatroomID:  chatroom.ID,
		AddedVia:    models.ContactSourceImport,
	})
	if err != nil {
		// Contact creation is visibility fan-out, not message storage.
		s.logger.Warn("Failed to auto-create contact",
			zap.String("from", from),
			zap.Int64("chatroomID", chatroom.ID),
			zap.Error(err))
	}

	var externalID sql.NullString
	if event.ProviderMessageID != "" {
		externalID = sql.NullString{String: event.ProviderMessageID, Valid: true}
	}

	inboundID, err := s.repo.Inbound().Create(&models.InboundMessage{
		FromNumber: from,
		ChatroomID: chatroom.ID,
		Content:    body,
		ExternalID: externalID,
	})
	if err != nil {
		return nil, err
	}

	// The message is durable; now claim the provider id. If this fails the
	// worst case is one duplicate on redelivery, which beats losing the
	// message to a claimed-but-unstored id.
	if event.ProviderMessageID != "" {
		if err := s.deduper.MarkSeen(ctx, event.ProviderMessageID); err != nil {
			s.logger.Warn("Failed to record dedup key",
				zap.String("externalID", event.ProviderMessageID),
				zap.Error(err))
		}
	}

	result := &InboundResult{
		ChatroomID:       chatroom.ID,
		ContactID:        contactID,
		ContactCreated:   created,
		InboundMessageID: inboundID,
	}

	// Mirror onto the unified timeline. The raw inbound record above is
	// authoritative; a failure here must not fail the webhook.
	msgID, err := s.repo.Message().Create(&models.Message{
		Direction:   models.DirectionInbound,
		FromNumber:  from,
		ToNumber:    to,
		Content:     body,
		ChannelType: "sms",
		Status:      models.MessageStatusSent,
		Read:        false,
		ChatroomID:  chatroom.ID,
		ExternalID:  externalID,
	})
	if err != nil {
		s.logger.Warn("Failed to mirror inbound message onto timeline",
			zap.Int64("inboundMessageID", inboundID),
			zap.Error(err))
	} else {
		result.MessageID = msgID
	}

	if contactID > 0 {
		if err := s.repo.Assignment().IncrementUnreadForContact(contactID); err != nil {
			s.logger.Warn("Failed to bump unread counters",
				zap.Int64("contactID", contactID),
				zap.Error(err))
		}
	}

	env := events.Envelope{
		Meta: events.Meta{Type: events.KeyMessageInbound, CorrelationID: event.ProviderMessageID},
		Data: events.MessageEvent{
			MessageID:  result.MessageID,
			ChatroomID: chatroom.ID,
			Direction:  string(models.DirectionInbound),
			ExternalID: event.ProviderMessageID,
		},
	}
	if err := s.events.Publish(ctx, events.KeyMessageInbound, env); err != nil {
		s.logger.Warn("Failed to publish inbound event", zap.Error(err))
	}

	s.logger.Info("Inbound message resolved",
		zap.Int64("chatroomID", chatroom.ID),
		zap.Int64("inboundMessageID", inboundID),
		zap.Bool("contactCreated", created))

	return result, nil
}
