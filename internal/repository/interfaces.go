package repository

import "github.com/chatlinehq/chatline/internal/models"

// Repository interface defines all repository operations.
type Repository interface {
	// Ping checks database connectivity
	Ping() error

	Chatroom() ChatroomRepository
	Contact() ContactRepository
	Message() MessageRepository
	Inbound() InboundRepository
	Token() TokenRepository
	Line() LineRepository
	Assignment() AssignmentRepository
	Provider() ProviderRepository
	Resource() ResourceRepository
	Access() AccessRepository
}

// ChatroomRepository resolves chatrooms and their routing chains.
type ChatroomRepository interface {
	// GetBySenderAddress returns active chatrooms whose bound sender number
	// equals address, most recently created first. At most two rows are
	// returned so callers can detect duplicate bindings.
	GetBySenderAddress(address string) ([]*models.Chatroom, error)
	GetByID(id int64) (*models.Chatroom, error)
	Route(chatroomID int64) (*models.Route, error)
	AllIDs() ([]int64, error)
}

type ContactRepository interface {
	// Ensure inserts the contact unless one already exists for the same
	// (chatroom, phone number) pair. Safe to call concurrently.
	Ensure(contact *models.Contact) (id int64, created bool, err error)
	GetByID(id int64) (*models.Contact, error)
}

// MessageRepository owns the unified message timeline.
type MessageRepository interface {
	Create(msg *models.Message) (int64, error)
	UpdateStatus(id int64, status models.MessageStatus, externalID *string, errorMsg *string) error
	// UpdateDeliveryStatus advances an outbound message identified by its
	// provider message id. The transition is guarded so a late or repeated
	// callback can never move a message backwards.
	UpdateDeliveryStatus(externalID string, status models.MessageStatus) (bool, error)
	ListByChatrooms(chatroomIDs []int64, offset, limit int) ([]*models.Message, error)
	CountByChatrooms(chatroomIDs []int64) (int64, error)
}

type InboundRepository interface {
	Create(msg *models.InboundMessage) (int64, error)
	ListByChatrooms(chatroomIDs []int64, offset, limit int) ([]*models.InboundMessage, error)
	CountByChatrooms(chatroomIDs []int64) (int64, error)
}

// TokenRepository is the per-user credit ledger.
type TokenRepository interface {
	// Debit atomically decrements the balance by one. It reports false when
	// the balance is below one; the check and the write are a single
	// conditional statement, never a read-then-write pair.
	Debit(userID string) (bool, error)
	Balance(userID string) (int64, error)
	Grant(userID string, amount int64) error
}

type LineRepository interface {
	GetByID(id int64) (*models.Line, error)
}

type AssignmentRepository interface {
	GetThread(id int64) (*models.AssignmentThread, error)
	Create(lineID, contactID int64) (id int64, created bool, err error)
	TouchLastMessage(id int64, content string) error
	ResetUnread(id int64) error
	IncrementUnreadForContact(contactID int64) error
}

type ProviderRepository interface {
	List() ([]*models.ProviderAccount, error)
	GetByID(id int64) (*models.ProviderAccount, error)
	Create(account *models.ProviderAccount) (int64, error)
}

type ResourceRepository interface {
	ListAssigned(userID string, ids []int64) ([]*models.ResourceEntry, error)
	MarkImported(ids []int64) error
}

// AccessRepository answers chatroom membership questions.
type AccessRepository interface {
	IsMember(userID string, chatroomID int64) (bool, error)
	ChatroomIDs(userID string) ([]int64, error)
}
