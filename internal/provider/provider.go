// Package provider implements adapters for external messaging providers.
// Adapters translate a uniform send/test contract into provider-specific REST
// calls and normalize the heterogeneous responses; they never persist state.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/chatlinehq/chatline/internal/config"
	"github.com/chatlinehq/chatline/internal/models"
)

// Kind is an explicit provider tag. It is resolved once when a provider
// account is created, never inferred from free-text names at send time.
type Kind string

const (
	KindTwilio  Kind = "twilio"
	KindInfobip Kind = "infobip"
)

// ErrTimeout marks a provider call that exceeded its deadline.
var ErrTimeout = errors.New("provider call timed out")

// ErrUnknownKind marks a provider tag with no registered adapter.
var ErrUnknownKind = errors.New("unknown provider kind")

// APIError carries the provider-supplied failure detail verbatim for audit.
type APIError struct {
	Kind   Kind
	Code   string
	Detail string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s error %s: %s", e.Kind, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Detail)
}

type Credentials = models.CredentialsMap

type SendResult struct {
	MessageID string
	Status    string
}

type TestResult struct {
	OK      bool
	Message string
}

// Sender is the uniform provider contract. A send either returns a provider
// message id or an error, never both.
type Sender interface {
	Send(ctx context.Context, creds Credentials, from, to, body string) (*SendResult, error)
	TestConnection(ctx context.Context, creds Credentials) (*TestResult, error)
}

// ParseKind validates an explicit kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindTwilio:
		return KindTwilio, nil
	case KindInfobip:
		return KindInfobip, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// DetectKind derives a kind from a free-text provider name. It exists for
// account creation only, so the name-matching happens exactly once and the
// stored tag drives all later dispatch.
func DetectKind(providerName string) (Kind, error) {
	name := strings.ToLower(providerName)
	switch {
	case strings.Contains(name, "twilio"):
		return KindTwilio, nil
	case strings.Contains(name, "infobip"):
		return KindInfobip, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, providerName)
	}
}

// Registry holds one adapter per provider kind.
type Registry struct {
	senders map[Kind]Sender
}

// NewRegistry builds the default adapter set with a shared request timeout.
func NewRegistry(cfg *config.ProviderConfig) *Registry {
	timeout := time.Duration(cfg.Timeout) * time.Second
	client := resty.New().SetTimeout(timeout)

	return &Registry{
		senders: map[Kind]Sender{
			KindTwilio:  NewTwilio(client),
			KindInfobip: NewInfobip(client),
		},
	}
}

// NewRegistryWith registers explicit adapters; used by tests.
func NewRegistryWith(senders map[Kind]Sender) *Registry {
	return &Registry{senders: senders}
}

func (r *Registry) Sender(kind Kind) (Sender, error) {
	s, ok := r.senders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return s, nil
}

// classifyTransportErr maps transport-level failures onto the shared taxonomy.
func classifyTransportErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return err
}
