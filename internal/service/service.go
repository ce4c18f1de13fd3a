package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"repairdesk/internal/cache"
	"repairdesk/internal/domain"
	"repairdesk/internal/store"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo     store.Repository
	cache    cache.TicketCache
	cacheTTL time.Duration
	now      func() time.Time

	// writeMu orders every cache write after an update with that update.
	// writes counts updates so a read that raced one does not refill the
	// cache with what it loaded.
	writeMu sync.Mutex
	writes  atomic.Uint64
}

func New(repo store.Repository, ticketCache cache.TicketCache, cacheTTL time.Duration) *Service {
	if ticketCache == nil {
		ticketCache = cache.NoopTicketCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	return &Service{
		repo:     repo,
		cache:    ticketCache,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.ServiceTicket, error) {
	return s.repo.ListTickets(ctx, filter)
}

// GetTicket reads through the ticket cache. Cache failures are logged and
// fall through to the repository. A load that overlapped an update is
// returned without being cached.
func (s *Service) GetTicket(ctx context.Context, id string) (domain.ServiceTicket, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ServiceTicket{}, store.ErrNotFound
	}

	cached, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		log.Printf("[service] WARN: ticket cache read failed id=%s: %v", id, err)
	}
	if ok && cached != nil {
		return *cached, nil
	}

	seen := s.writes.Load()
	ticket, err := s.repo.GetTicket(ctx, id)
	if err != nil {
		return domain.ServiceTicket{}, err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.writes.Load() != seen {
		return *ticket, nil
	}
	if err := s.cache.Set(ctx, ticket, s.cacheTTL); err != nil {
		log.Printf("[service] WARN: ticket cache write failed id=%s: %v", id, err)
	}
	return *ticket, nil
}

// CreateTicket stores a new ticket. Whatever the client sent, the total is
// recomputed from the rates and the status starts as pending.
func (s *Service) CreateTicket(ctx context.Context, ticket domain.ServiceTicket) (domain.ServiceTicket, error) {
	ticket = normalizeTicket(ticket)
	if err := domain.ValidateTicket(ticket); err != nil {
		return domain.ServiceTicket{}, err
	}

	ticket.ID = ""
	ticket.Total = ticket.ComputedTotal()
	ticket.Status = domain.StatusPending
	if ticket.Device.ReceivedBy == "" {
		if actor, ok := ActorFromContext(ctx); ok {
			ticket.Device.ReceivedBy = actor.Username
		}
	}
	now := s.now()
	ticket.CreatedAt = &now
	ticket.UpdatedAt = &now

	created, err := s.repo.CreateTicket(ctx, ticket)
	if err != nil {
		return domain.ServiceTicket{}, err
	}

	log.Printf("[service] ticket created id=%s by=%s total=%s", created.ID, actorName(ctx), created.Total)
	return *created, nil
}

// UpdateTicket replaces the stored ticket with id. The stored creation time
// is kept and a completed ticket cannot go back to pending.
func (s *Service) UpdateTicket(ctx context.Context, id string, ticket domain.ServiceTicket) (domain.ServiceTicket, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ServiceTicket{}, store.ErrNotFound
	}
	ticket = normalizeTicket(ticket)
	if err := domain.ValidateTicket(ticket); err != nil {
		return domain.ServiceTicket{}, err
	}

	existing, err := s.repo.GetTicket(ctx, id)
	if err != nil {
		return domain.ServiceTicket{}, err
	}
	if !domain.CanTransition(existing.Status, ticket.Status) {
		return domain.ServiceTicket{}, store.ErrInvalidTransition
	}

	ticket.ID = id
	ticket.Total = ticket.ComputedTotal()
	ticket.CreatedAt = existing.CreatedAt
	now := s.now()
	ticket.UpdatedAt = &now

	s.writeMu.Lock()
	updated, err := s.repo.UpdateTicket(ctx, ticket)
	if err != nil {
		s.writeMu.Unlock()
		return domain.ServiceTicket{}, err
	}
	s.writes.Add(1)
	if err := s.cache.Set(ctx, updated, s.cacheTTL); err != nil {
		log.Printf("[service] WARN: ticket cache refresh failed id=%s: %v", id, err)
		if err := s.cache.Delete(ctx, id); err != nil {
			log.Printf("[service] WARN: ticket cache invalidation failed id=%s: %v", id, err)
		}
	}
	s.writeMu.Unlock()

	log.Printf("[service] ticket updated id=%s by=%s status=%s", id, actorName(ctx), updated.Status)
	return *updated, nil
}

func normalizeTicket(t domain.ServiceTicket) domain.ServiceTicket {
	t.Customer.Name = strings.TrimSpace(t.Customer.Name)
	t.Customer.Phone = strings.TrimSpace(t.Customer.Phone)
	t.Customer.Address = strings.TrimSpace(t.Customer.Address)
	t.Device.Brand = strings.TrimSpace(t.Device.Brand)
	t.Device.Model = strings.TrimSpace(t.Device.Model)
	t.Device.IMEI = strings.TrimSpace(t.Device.IMEI)
	t.Device.ReceivedBy = strings.TrimSpace(t.Device.ReceivedBy)
	t.Problem.ComplaintType = domain.ComplaintType(strings.TrimSpace(string(t.Problem.ComplaintType)))
	t.Problem.Description = strings.TrimSpace(t.Problem.Description)
	return t
}

func actorName(ctx context.Context) string {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Username == "" {
		return "anonymous"
	}
	return actor.Username
}
