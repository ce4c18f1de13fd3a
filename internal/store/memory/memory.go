package memory

import (
	"context"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"repairdesk/internal/domain"
	"repairdesk/internal/store"
)

type Store struct {
	mu              sync.RWMutex
	ticketsByID     map[string]domain.ServiceTicket
	usersByUsername map[string]domain.StaffAccount
}

func New() *Store {
	return &Store{
		ticketsByID:     make(map[string]domain.ServiceTicket),
		usersByUsername: make(map[string]domain.StaffAccount),
	}
}

// NewSeeded returns a store with one admin and one technician account for
// dev/demo mode. Passwords come from SEED_ADMIN_PASSWORD and
// SEED_TECHNICIAN_PASSWORD, with dev defaults when unset.
func NewSeeded() *Store {
	s := New()
	s.usersByUsername = seedUsers()
	return s
}

func seedUsers() map[string]domain.StaffAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	technicianPwd := envOr("SEED_TECHNICIAN_PASSWORD", "technician123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_TECHNICIAN_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_TECHNICIAN_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.StaffAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, domain.RoleAdmin},
		{"technician", technicianPwd, domain.RoleTechnician},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.StaffAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (s *Store) ListTickets(_ context.Context, filter domain.TicketFilter) ([]domain.ServiceTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tickets := make([]domain.ServiceTicket, 0, len(s.ticketsByID))
	for _, ticket := range s.ticketsByID {
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		tickets = append(tickets, cloneTicket(ticket))
	}
	sort.Slice(tickets, func(i, j int) bool {
		return createdAt(tickets[i]).After(createdAt(tickets[j]))
	})
	return tickets, nil
}

func (s *Store) GetTicket(_ context.Context, id string) (*domain.ServiceTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.ticketsByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	found := cloneTicket(ticket)
	return &found, nil
}

func (s *Store) CreateTicket(_ context.Context, ticket domain.ServiceTicket) (*domain.ServiceTicket, error) {
	if err := domain.ValidateTicket(ticket); err != nil {
		return nil, store.ErrInvalidTicket
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if _, exists := s.ticketsByID[ticket.ID]; exists {
		return nil, store.ErrConflict
	}
	s.ticketsByID[ticket.ID] = cloneTicket(ticket)

	created := cloneTicket(ticket)
	return &created, nil
}

func (s *Store) UpdateTicket(_ context.Context, ticket domain.ServiceTicket) (*domain.ServiceTicket, error) {
	if ticket.ID == "" {
		return nil, store.ErrNotFound
	}
	if err := domain.ValidateTicket(ticket); err != nil {
		return nil, store.ErrInvalidTicket
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.ticketsByID[ticket.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if !domain.CanTransition(existing.Status, ticket.Status) {
		return nil, store.ErrInvalidTransition
	}
	s.ticketsByID[ticket.ID] = cloneTicket(ticket)

	updated := cloneTicket(ticket)
	return &updated, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.StaffAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrConflict
	}
	user.Username = username
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.usersByUsername[username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.StaffAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.StaffAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.usersByUsername[username]
	if !ok {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func createdAt(t domain.ServiceTicket) time.Time {
	if t.CreatedAt == nil {
		return time.Time{}
	}
	return *t.CreatedAt
}

// cloneTicket copies the pointer fields so callers cannot mutate stored state.
func cloneTicket(t domain.ServiceTicket) domain.ServiceTicket {
	if t.ManualTotal != nil {
		manual := *t.ManualTotal
		t.ManualTotal = &manual
	}
	if t.CreatedAt != nil {
		created := *t.CreatedAt
		t.CreatedAt = &created
	}
	if t.UpdatedAt != nil {
		updated := *t.UpdatedAt
		t.UpdatedAt = &updated
	}
	return t
}
