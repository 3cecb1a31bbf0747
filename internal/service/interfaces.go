package service

import (
	"context"

	"github.com/chatlinehq/chatline/internal/models"
	"github.com/chatlinehq/chatline/internal/provider"
)

// InboundService turns a provider delivery callback into a stored,
// correctly-attributed message.
type InboundService interface {
	Resolve(ctx context.Context, event InboundEvent) (*InboundResult, error)
}

// OutboundService resolves logical send requests into provider calls and
// records the outcome.
type OutboundService interface {
	SendToContact(ctx context.Context, actor models.Actor, chatroomID int64, toNumber, body string) (*SendOutcome, error)
	SendToClient(ctx context.Context, actor models.Actor, assignmentID int64, body string) (*SendOutcome, error)
}

// DeliveryService applies provider status callbacks to sent messages.
type DeliveryService interface {
	HandleStatusCallback(ctx context.Context, externalID, providerStatus string) (bool, error)
}

// AccessService answers chatroom/line access questions. Admins bypass all
// chatroom-level checks.
type AccessService interface {
	CanAccessChatroom(actor models.Actor, chatroomID int64) (bool, error)
	VisibleChatroomIDs(actor models.Actor) ([]int64, error)
}

// LedgerService is the per-user send credit.
type LedgerService interface {
	// Debit charges one credit for a send. Admin-equivalent actors are a
	// role variant with unlimited credit, not a sentinel balance.
	Debit(actor models.Actor) (Credit, error)
	Balance(actor models.Actor) (Credit, error)
}

// InboxService serves read-side views filtered by the caller's access.
type InboxService interface {
	ListMessages(actor models.Actor, page, limit int) ([]*models.Message, int64, error)
	ListInbound(actor models.Actor, page, limit int) ([]*models.InboundMessage, int64, error)
	MarkRead(actor models.Actor, assignmentID int64) error
}

// ImportService materializes resource-pool entries into live threads.
type ImportService interface {
	ImportToLine(actor models.Actor, lineID int64, resourceIDs []int64) (*ImportResult, error)
}

// ProviderAdminService manages provider accounts.
type ProviderAdminService interface {
	List(actor models.Actor) ([]*models.ProviderAccount, error)
	Create(actor models.Actor, providerType, providerName string, creds models.CredentialsMap) (*models.ProviderAccount, error)
	TestConnection(ctx context.Context, providerName string, creds models.CredentialsMap) (*provider.TestResult, error)
}

type HealthService interface {
	GetHealth() *HealthStatus
}
