package service

// InboundEvent is a normalized provider delivery callback. Adapters decode
// provider-specific payload shapes into this triple before resolution.
type InboundEvent struct {
	From              string
	To                string
	Body              string
	ProviderMessageID string
}

// InboundResult reports what resolution did, mostly for logging and tests.
type InboundResult struct {
	ChatroomID       int64
	ContactID        int64
	ContactCreated   bool
	InboundMessageID int64
	MessageID        int64
	Duplicate        bool
}

// Credit is the ledger state after an operation.
type Credit struct {
	Unlimited bool
	Remaining int64
}

// SendOutcome reports a completed (successful) outbound send.
type SendOutcome struct {
	MessageID  int64
	ExternalID string
	Credit     Credit
}

// ImportResult summarizes a resource-pool import.
type ImportResult struct {
	Imported int
	Skipped  int
}

type HealthStatus struct {
	Status               string `json:"status"`
	DatabaseStatus       string `json:"database_status"`
	RedisStatus          string `json:"redis_status"`
	CircuitBreakerState  string `json:"circuit_breaker_state,omitempty"`
	CircuitBreakerStatus string `json:"circuit_breaker_status,omitempty"`
}
