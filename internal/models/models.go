// Package models defines data structures used throughout the application.
package models

import (
	"database/sql"
	"time"
)

type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusFailed    MessageStatus = "failed"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type ContactSource string

const (
	ContactSourceManual ContactSource = "manual"
	ContactSourceImport ContactSource = "import"
)

// ProviderAccount is an admin-configured credential set for an external
// messaging provider. Credentials are stored as an opaque JSON map and are
// masked on list responses.
type ProviderAccount struct {
	ID           int64          `db:"id" json:"id"`
	ProviderType string         `db:"provider_type" json:"provider_type"`
	ProviderName string         `db:"provider_name" json:"provider_name"`
	Kind         string         `db:"kind" json:"kind"`
	Credentials  CredentialsMap `db:"credentials" json:"credentials"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// SenderNumber is a platform-owned phone number or sender ID.
type SenderNumber struct {
	ID            int64          `db:"id" json:"id"`
	Label         string         `db:"label" json:"label"`
	NumberOrID    string         `db:"number_or_id" json:"number_or_id"`
	ChannelType   string         `db:"channel_type" json:"channel_type"`
	APIProviderID sql.NullInt64  `db:"api_provider_id" json:"api_provider_id,omitempty"`
	Region        sql.NullString `db:"region" json:"region,omitempty"`
	IsActive      bool           `db:"is_active" json:"is_active"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// Chatroom is a logical inbox bound to one sender number and one provider.
type Chatroom struct {
	ID             int64         `db:"id" json:"id"`
	Name           string        `db:"name" json:"name"`
	ProviderType   string        `db:"provider_type" json:"provider_type"`
	SenderNumberID sql.NullInt64 `db:"sender_number_id" json:"sender_number_id,omitempty"`
	IsActive       bool          `db:"is_active" json:"is_active"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

// Contact is an external party scoped to one chatroom.
type Contact struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	PhoneNumber string         `db:"phone_number" json:"phone_number"`
	Email       sql.NullString `db:"email" json:"email,omitempty"`
	ChatroomID  int64          `db:"chatroom_id" json:"chatroom_id"`
	OwnerUserID sql.NullString `db:"owner_user_id" json:"owner_user_id,omitempty"`
	AddedVia    ContactSource  `db:"added_via" json:"added_via"`
	IsFavorite  bool           `db:"is_favorite" json:"is_favorite"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// Message records one send attempt or a mirrored inbound event on the
// unified timeline. Status transitions are pending -> sent -> delivered/read
// or pending -> failed; failed is terminal.
type Message struct {
	ID                 int64            `db:"id" json:"id"`
	Direction          MessageDirection `db:"direction" json:"direction"`
	FromNumber         string           `db:"from_number" json:"from_number"`
	ToNumber           string           `db:"to_number" json:"to_number"`
	Content            string           `db:"content" json:"content"`
	ChannelType        string           `db:"channel_type" json:"channel_type"`
	Status             MessageStatus    `db:"status" json:"status"`
	Read               bool             `db:"read" json:"read"`
	ChatroomID         int64            `db:"chatroom_id" json:"chatroom_id"`
	ClientAssignmentID sql.NullInt64    `db:"client_assignment_id" json:"client_assignment_id,omitempty"`
	UserID             sql.NullString   `db:"user_id" json:"user_id,omitempty"`
	ExternalID         sql.NullString   `db:"external_id" json:"external_id,omitempty"`
	Error              sql.NullString   `db:"error" json:"error,omitempty"`
	CreatedAt          time.Time        `db:"created_at" json:"created_at"`
	SentAt             sql.NullTime     `db:"sent_at" json:"sent_at,omitempty"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updated_at"`
}

// InboundMessage is the raw inbound event keyed by originating address and
// destination chatroom. It is the authoritative record for a webhook delivery.
type InboundMessage struct {
	ID         int64          `db:"id" json:"id"`
	FromNumber string         `db:"from_number" json:"from_number"`
	ChatroomID int64          `db:"chatroom_id" json:"chatroom_id"`
	Content    string         `db:"content" json:"content"`
	ExternalID sql.NullString `db:"external_id" json:"external_id,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// Line is a per-user phone identity bound to one chatroom (a mini-chatroom).
type Line struct {
	ID                 int64          `db:"id" json:"id"`
	UserID             string         `db:"user_id" json:"user_id"`
	RealNumber         string         `db:"real_number" json:"real_number"`
	Label              sql.NullString `db:"label" json:"label,omitempty"`
	AssignedChatroomID sql.NullInt64  `db:"assigned_chatroom_id" json:"assigned_chatroom_id,omitempty"`
	DailyLimit         int            `db:"daily_limit" json:"daily_limit"`
	IsActive           bool           `db:"is_active" json:"is_active"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

// ClientAssignment binds a contact to a line; it is the conversation-thread
// unit for the mini-chatroom flow.
type ClientAssignment struct {
	ID                 int64          `db:"id" json:"id"`
	LineID             int64          `db:"line_id" json:"line_id"`
	ContactID          int64          `db:"contact_id" json:"contact_id"`
	Status             string         `db:"status" json:"status"`
	LastMessageAt      sql.NullTime   `db:"last_message_at" json:"last_message_at,omitempty"`
	LastMessageContent sql.NullString `db:"last_message_content" json:"last_message_content,omitempty"`
	UnreadCount        int            `db:"unread_count" json:"unread_count"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
}

// ResourceEntry is a pre-provisioned contact record assignable to a user and
// later imported into a live contact/thread.
type ResourceEntry struct {
	ID               int64          `db:"id" json:"id"`
	PhoneNumber      string         `db:"phone_number" json:"phone_number"`
	FirstName        sql.NullString `db:"first_name" json:"first_name,omitempty"`
	AssignedToUserID sql.NullString `db:"assigned_to_user_id" json:"assigned_to_user_id,omitempty"`
	Imported         bool           `db:"imported" json:"imported"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// TokenBalance is the per-user send credit.
type TokenBalance struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
