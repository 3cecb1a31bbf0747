package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker"

	"github.com/chatlinehq/chatline/internal/provider"
	"github.com/chatlinehq/chatline/internal/repository"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	statusConnected    = "connected"
	statusDisconnected = "disconnected"
)

type healthService struct {
	repo        repository.Repository
	redisClient *redis.Client
	breaker     *provider.Breaker
}

func NewHealthService(repo repository.Repository, redisClient *redis.Client, breaker *provider.Breaker) HealthService {
	return &healthService{
		repo:        repo,
		redisClient: redisClient,
		breaker:     breaker,
	}
}

func (s *healthService) GetHealth() *HealthStatus {
	status := &HealthStatus{
		Status:         statusHealthy,
		DatabaseStatus: statusConnected,
		RedisStatus:    statusConnected,
	}

	if err := s.repo.Ping(); err != nil {
		status.DatabaseStatus = statusDisconnected
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		status.RedisStatus = statusDisconnected
	}

	state := s.breaker.GetState()
	status.CircuitBreakerState = state.String()

	requests, failures := s.breaker.GetCounts()
	if requests > 0 {
		failureRate := float64(failures) / float64(requests) * 100
		status.CircuitBreakerStatus = fmt.Sprintf("Requests: %d, Failures: %d (%.1f%%)", requests, failures, failureRate)
	} else {
		status.CircuitBreakerStatus = "No requests yet"
	}

	if status.DatabaseStatus != statusConnected || status.RedisStatus != statusConnected {
		status.Status = statusUnhealthy
	} else if state == gobreaker.StateOpen {
		// Degraded, not down: the API still serves reads while provider
		// dispatch is blocked.
		status.Status = statusDegraded
	}

	return status
}
