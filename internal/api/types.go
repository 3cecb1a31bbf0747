// Package api defines the HTTP surface: request/response types, the
// ServerInterface contract and the chi route table.
package api

import (
	"time"

	"github.com/chatlinehq/chatline/internal/models"
)

// Health status values reported by the health endpoint.
const (
	Healthy   = "healthy"
	Degraded  = "degraded"
	Unhealthy = "unhealthy"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error     string     `json:"error"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// SendMessageRequest sends a free-form message into a chatroom.
type SendMessageRequest struct {
	ChatroomID int64  `json:"chatroom_id" validate:"required,gt=0"`
	ToNumber   string `json:"to_number" validate:"required,max=32"`
	Content    string `json:"content" validate:"required,max=1600"`
}

// SendInboxMessageRequest sends a message into an owned client thread.
type SendInboxMessageRequest struct {
	ClientAssignmentID int64  `json:"client_assignment_id" validate:"required,gt=0"`
	Content            string `json:"content" validate:"required,max=1600"`
}

// SendMessageResponse reports a completed send. RemainingCredit is nil for
// callers with unlimited credit.
type SendMessageResponse struct {
	Success         bool   `json:"success"`
	MessageID       int64  `json:"message_id"`
	ExternalID      string `json:"external_id,omitempty"`
	RemainingCredit *int64 `json:"remaining_credit,omitempty"`
}

// MarkReadRequest resets the unread counter on a client thread.
type MarkReadRequest struct {
	ClientAssignmentID int64 `json:"client_assignment_id" validate:"required,gt=0"`
}

// ImportResourcesRequest materializes assigned resource-pool entries into a
// mini-chatroom.
type ImportResourcesRequest struct {
	LineID      int64   `json:"line_id" validate:"required,gt=0"`
	ResourceIDs []int64 `json:"resource_ids" validate:"required,min=1,dive,gt=0"`
}

// ImportResourcesResponse summarizes an import run.
type ImportResourcesResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// CreateProviderRequest registers a provider account.
type CreateProviderRequest struct {
	ProviderType string            `json:"provider_type" validate:"required,max=64"`
	ProviderName string            `json:"provider_name" validate:"required,max=128"`
	Credentials  map[string]string `json:"credentials" validate:"required,min=1"`
}

// TestConnectionRequest probes provider credentials without persisting them.
type TestConnectionRequest struct {
	ProviderName string            `json:"provider_name" validate:"required,max=128"`
	Credentials  map[string]string `json:"credentials" validate:"required,min=1"`
}

// TestConnectionResponse reports a credential probe.
type TestConnectionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Pagination describes a page of a larger result set.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// MessagesResponse is a page of stored messages.
type MessagesResponse struct {
	Messages   []*models.Message `json:"messages"`
	Pagination Pagination        `json:"pagination"`
}

// InboundMessagesResponse is a page of raw inbound records.
type InboundMessagesResponse struct {
	Messages   []*models.InboundMessage `json:"messages"`
	Pagination Pagination               `json:"pagination"`
}

// ProviderResponse is a provider account with masked credentials.
type ProviderResponse struct {
	ID           int64             `json:"id"`
	ProviderType string            `json:"provider_type"`
	ProviderName string            `json:"provider_name"`
	Kind         string            `json:"kind"`
	Credentials  map[string]string `json:"credentials"`
	IsActive     bool              `json:"is_active"`
	CreatedAt    time.Time         `json:"created_at"`
}

// HealthResponse reports component-level health.
type HealthResponse struct {
	Status               string    `json:"status"`
	Timestamp            time.Time `json:"timestamp"`
	DatabaseStatus       *string   `json:"database_status,omitempty"`
	RedisStatus          *string   `json:"redis_status,omitempty"`
	CircuitBreakerState  *string   `json:"circuit_breaker_state,omitempty"`
	CircuitBreakerStatus *string   `json:"circuit_breaker_status,omitempty"`
}

// GetMessagesParams defines parameters for GetMessages.
type GetMessagesParams struct {
	Page  *int `form:"page" json:"page,omitempty"`
	Limit *int `form:"limit" json:"limit,omitempty"`
}

// GetInboundMessagesParams defines parameters for GetInboundMessages.
type GetInboundMessagesParams struct {
	Page  *int `form:"page" json:"page,omitempty"`
	Limit *int `form:"limit" json:"limit,omitempty"`
}
