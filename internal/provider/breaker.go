package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/chatlinehq/chatline/internal/config"
)

// Breaker guards provider dispatch with a shared circuit breaker so a
// misbehaving provider cannot exhaust request handlers.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

func NewBreaker(cfg *config.CircuitBreakerConfig, logger *zap.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:        "provider-dispatch",
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.ConsecutiveFails && failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	}

	return &Breaker{
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: logger,
	}
}

// Execute runs fn through the circuit breaker, surfacing open-state refusals
// as provider errors without calling fn.
func (b *Breaker) Execute(ctx context.Context, fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			return nil, fn()
		}
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			b.logger.Warn("Circuit breaker is open, provider call blocked")
			return fmt.Errorf("provider unavailable: circuit breaker is open")
		}
		if errors.Is(err, gobreaker.ErrTooManyRequests) {
			b.logger.Warn("Circuit breaker: too many requests")
			return fmt.Errorf("provider unavailable: too many requests")
		}
		return err
	}

	return nil
}

// GetState returns the current breaker state.
func (b *Breaker) GetState() gobreaker.State {
	return b.cb.State()
}

// GetCounts returns total requests and failures seen by the breaker.
func (b *Breaker) GetCounts() (requests uint32, failures uint32) {
	counts := b.cb.Counts()
	return counts.Requests, counts.TotalFailures
}
