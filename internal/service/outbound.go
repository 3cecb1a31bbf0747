package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/chatlinehq/chatline/internal/events"
	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/provider"
	"github.com/chatlinehq/chatline/internal/repository"
)

type outboundService struct {
	repo     repository.Repository
	access   AccessService
	ledger   LedgerService
	registry *provider.Registry
	breaker  *provider.Breaker
	extIDs   ExternalIDCache
	events   events.Publisher
	logger   *zap.Logger
}

func NewOutboundService(
	repo repository.Repository,
	access AccessService,
	ledger LedgerService,
	registry *provider.Registry,
	breaker *provider.Breaker,
	extIDs ExternalIDCache,
	publisher events.Publisher,
	logger *zap.Logger,
) OutboundService {
	return &outboundService{
		repo:     repo,
		access:   access,
		ledger:   ledger,
		registry: registry,
		breaker:  breaker,
		extIDs:   extIDs,
		events:   publisher,
		logger:   logger,
	}
}

// resolvedRoute is a complete, verified ownership chain.
type resolvedRoute struct {
	ChatroomID  int64
	FromNumber  string
	ChannelType string
	Kind        provider.Kind
	Credentials provider.Credentials
}

// resolveRoute walks chatroom -> sender number -> provider account and fails
// closed at the first broken link. No provider call and no debit happen when
// the chain is incomplete.
func (s *outboundService) resolveRoute(chatroomID int64) (*resolvedRoute, error) {
	route, err := s.repo.Chatroom().Route(chatroomID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, fmt.Errorf("%w: chatroom %d", ErrNotFound, chatroomID)
	}

	switch {
	case !route.ChatroomActive:
		return nil, &IncompleteRoutingError{Link: "chatroom is inactive"}
	case !route.SenderNumberID.Valid:
		return nil, &IncompleteRoutingError{Link: "chatroom has no sender number"}
	case !route.SenderActive.Bool:
		return nil, &IncompleteRoutingError{Link: "sender number is inactive"}
	case !route.ProviderID.Valid:
		return nil, &IncompleteRoutingError{Link: "sender number has no provider account"}
	case !route.ProviderActive.Bool:
		return nil, &IncompleteRoutingError{Link: "provider account is inactive"}
	}

	kind, err := provider.ParseKind(route.ProviderKind.String)
	if err != nil {
		return nil, &IncompleteRoutingError{Link: "provider account has an unknown kind"}
	}

	channel := "sms"
	if route.ChannelType.Valid && route.ChannelType.String != "" {
		channel = route.ChannelType.String
	}

	return &resolvedRoute{
		ChatroomID:  route.ChatroomID,
		FromNumber:  route.FromNumber.String,
		ChannelType: channel,
		Kind:        kind,
		Credentials: route.Credentials,
	}, nil
}

// SendToContact sends to an arbitrary destination through a chatroom the
// actor is assigned to.
func (s *outboundService) SendToContact(ctx context.Context, actor models.Actor, chatroomID int64, toNumber, body string) (*SendOutcome, error) {
	if chatroomID <= 0 || toNumber == "" || body == "" {
		return nil, fmt.Errorf("%w: chatroom_id, to_number and content are required", ErrValidation)
	}

	ok, err := s.access.CanAccessChatroom(actor, chatroomID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no assignment to chatroom %d", ErrAccessDenied, chatroomID)
	}

	route, err := s.resolveRoute(chatroomID)
	if err != nil {
		return nil, err
	}

	return s.send(ctx, actor, route, sendRequest{
		RecordFrom: route.FromNumber,
		To:         toNumber,
		Body:       body,
	})
}

// SendToClient sends to a contact through the actor's own line, resolving the
// full chain line -> chatroom -> sender number -> provider account.
func (s *outboundService) SendToClient(ctx context.Context, actor models.Actor, assignmentID int64, body string) (*SendOutcome, error) {
	if assignmentID <= 0 || body == "" {
		return nil, fmt.Errorf("%w: client_assignment_id and content are required", ErrValidation)
	}

	thread, err := s.repo.Assignment().GetThread(assignmentID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, fmt.Errorf("%w: client assignment %d", ErrNotFound, assignmentID)
	}

	if !actor.IsAdmin() && thread.LineUserID != actor.ID {
		return nil, fmt.Errorf("%w: line belongs to another user", ErrAccessDenied)
	}

	if !thread.LineActive {
		return nil, &IncompleteRoutingError{Link: "line is inactive"}
	}
	if !thread.ChatroomID.Valid {
		return nil, &IncompleteRoutingError{Link: "line is not linked to a chatroom"}
	}

	route, err := s.resolveRoute(thread.ChatroomID.Int64)
	if err != nil {
		return nil, err
	}

	outcome, err := s.send(ctx, actor, route, sendRequest{
		RecordFrom:   thread.LineNumber,
		To:           thread.ContactNumber,
		Body:         body,
		AssignmentID: thread.AssignmentID,
	})
	if err != nil {
		return nil, err
	}

	// Thread summary keeps list views current without re-querying messages.
	if err := s.repo.Assignment().TouchLastMessage(thread.AssignmentID, body); err != nil {
		s.logger.Warn("Failed to update thread summary",
			zap.Int64("assignmentID", thread.AssignmentID),
			zap.Error(err))
	}
	if err := s.repo.Assignment().ResetUnread(thread.AssignmentID); err != nil {
		s.logger.Warn("Failed to reset unread count",
			zap.Int64("assignmentID", thread.AssignmentID),
			zap.Error(err))
	}

	return outcome, nil
}

type sendRequest struct {
	// RecordFrom is the from-address written to the timeline; for line sends
	// it is the line's real number while the provider call still uses the
	// chatroom's registered sender number.
	RecordFrom   string
	To           string
	Body         string
	AssignmentID int64
}

// send charges credit, writes the pending record, dispatches through the
// provider adapter and records the outcome. The debit happens after chain
// resolution but before dispatch: a provider failure still consumes the
// credit, which under-counts rather than allowing free sends.
func (s *outboundService) send(ctx context.Context, actor models.Actor, route *resolvedRoute, req sendRequest) (*SendOutcome, error) {
	credit, err := s.ledger.Debit(actor)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		Direction:   models.DirectionOutbound,
		FromNumber:  req.RecordFrom,
		ToNumber:    req.To,
		Content:     req.Body,
		ChannelType: route.ChannelType,
		Status:      models.MessageStatusPending,
		Read:        true,
		ChatroomID:  route.ChatroomID,
		UserID:      sql.NullString{String: actor.ID, Valid: true},
	}
	if req.AssignmentID > 0 {
		msg.ClientAssignmentID = sql.NullInt64{Int64: req.AssignmentID, Valid: true}
	}

	msgID, err := s.repo.Message().Create(msg)
	if err != nil {
		return nil, err
	}

	result, err := s.dispatch(ctx, msgID, route, req)
	if err != nil {
		return nil, err
	}

	return &SendOutcome{
		MessageID:  msgID,
		ExternalID: result.MessageID,
		Credit:     credit,
	}, nil
}

// dispatch performs exactly one provider call through the circuit breaker and
// moves the message out of pending, whatever happens.
func (s *outboundService) dispatch(ctx context.Context, msgID int64, route *resolvedRoute, req sendRequest) (*provider.SendResult, error) {
	sender, err := s.registry.Sender(route.Kind)
	if err != nil {
		s.markFailed(msgID, route.ChatroomID, err.Error())
		return nil, &IncompleteRoutingError{Link: "no adapter for provider kind"}
	}

	var result *provider.SendResult
	err = s.breaker.Execute(ctx, func() error {
		var sendErr error
		result, sendErr = sender.Send(ctx, route.Credentials, route.FromNumber, req.To, req.Body)
		return sendErr
	})

	if err != nil {
		s.markFailed(msgID, route.ChatroomID, err.Error())

		if errors.Is(err, provider.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrProviderTimeout, err.Error())
		}
		return nil, fmt.Errorf("%w: %s", ErrProviderFailure, err.Error())
	}

	if err := s.repo.Message().UpdateStatus(msgID, models.MessageStatusSent, &result.MessageID, nil); err != nil {
		// The provider accepted the message; losing the status update must
		// not turn a delivered send into a reported failure.
		s.logger.Error("Failed to record sent status",
			zap.Int64("messageID", msgID),
			zap.String("externalID", result.MessageID),
			zap.Error(err))
	}

	if err := s.extIDs.Remember(ctx, result.MessageID, msgID); err != nil {
		s.logger.Warn("Failed to cache external message id",
			zap.String("externalID", result.MessageID),
			zap.Error(err))
	}

	s.publish(ctx, events.KeyMessageSent, events.MessageEvent{
		MessageID:  msgID,
		ChatroomID: route.ChatroomID,
		Direction:  string(models.DirectionOutbound),
		Status:     string(models.MessageStatusSent),
		ExternalID: result.MessageID,
	})

	s.logger.Info("Message sent",
		zap.Int64("messageID", msgID),
		zap.String("externalID", result.MessageID),
		zap.String("provider", string(route.Kind)),
		zap.String("circuitBreakerState", s.breaker.GetState().String()))

	return result, nil
}

func (s *outboundService) markFailed(msgID, chatroomID int64, detail string) {
	if err := s.repo.Message().UpdateStatus(msgID, models.MessageStatusFailed, nil, &detail); err != nil {
		s.logger.Error("Failed to record failed status",
			zap.Int64("messageID", msgID),
			zap.Error(err))
	}

	s.publish(context.Background(), events.KeyMessageFailed, events.MessageEvent{
		MessageID:  msgID,
		ChatroomID: chatroomID,
		Direction:  string(models.DirectionOutbound),
		Status:     string(models.MessageStatusFailed),
	})
}

func (s *outboundService) publish(ctx context.Context, key string, data events.MessageEvent) {
	env := events.Envelope{
		Meta: events.Meta{Type: key},
		Data: data,
	}
	if err := s.events.Publish(ctx, key, env); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("key", key), zap.Error(err))
	}
}
