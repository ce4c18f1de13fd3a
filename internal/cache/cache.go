package cache

import (
	"context"
	"time"

	"repairdesk/internal/domain"
)

type TicketCache interface {
	Get(ctx context.Context, id string) (*domain.ServiceTicket, bool, error)
	Set(ctx context.Context, ticket *domain.ServiceTicket, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type NoopTicketCache struct{}

func (NoopTicketCache) Get(_ context.Context, _ string) (*domain.ServiceTicket, bool, error) {
	return nil, false, nil
}

func (NoopTicketCache) Set(_ context.Context, _ *domain.ServiceTicket, _ time.Duration) error {
	return nil
}

func (NoopTicketCache) Delete(_ context.Context, _ string) error {
	return nil
}
