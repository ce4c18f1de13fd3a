package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"repairdesk/internal/domain"
	"repairdesk/internal/store"
)

func sampleTicket() domain.ServiceTicket {
	return domain.ServiceTicket{
		Customer: domain.Customer{Name: "A", Phone: "555"},
		Device:   domain.Device{Brand: "B", Model: "M", ReceivedDate: domain.NewCalendarDate(2024, time.January, 5)},
		Problem: domain.Problem{
			ComplaintType: domain.ComplaintHardware,
			Description:   "cracked",
			ProductRate:   domain.NewAmount(200),
			ServiceCharge: domain.NewAmount(50),
		},
		Total: domain.NewAmount(250),
	}
}

func TestCreateAssignsIDAndGetReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateTicket(ctx, sampleTicket())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id to be assigned")
	}

	manual := domain.NewAmount(1)
	created.ManualTotal = &manual

	found, err := s.GetTicket(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found.ManualTotal != nil {
		t.Fatalf("expected stored ticket to be unaffected by caller mutation")
	}
}

func TestUpdateRejectsReturnToPending(t *testing.T) {
	s := New()
	ctx := context.Background()

	ticket := sampleTicket()
	ticket.Status = domain.Completed(domain.PaymentPaid)
	created, err := s.CreateTicket(ctx, ticket)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	created.Status = domain.StatusPending
	_, err = s.UpdateTicket(ctx, *created)
	if !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	created.Status = domain.Completed(domain.PaymentUnpaid)
	if _, err := s.UpdateTicket(ctx, *created); err != nil {
		t.Fatalf("expected paid -> unpaid to be allowed, got %v", err)
	}
}

func TestUpdateUnknownTicket(t *testing.T) {
	s := New()
	ticket := sampleTicket()
	ticket.ID = "missing"

	_, err := s.UpdateTicket(context.Background(), ticket)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTicketsFiltersAndSortsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	first := sampleTicket()
	first.CreatedAt = &older
	second := sampleTicket()
	second.CreatedAt = &newer
	second.Status = domain.Completed(domain.PaymentPaid)

	for _, ticket := range []domain.ServiceTicket{first, second} {
		if _, err := s.CreateTicket(ctx, ticket); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	all, err := s.ListTickets(ctx, domain.TicketFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 || !all[0].CreatedAt.Equal(newer) {
		t.Fatalf("expected newest first, got %+v", all)
	}

	pending := domain.StatusPending
	filtered, err := s.ListTickets(ctx, domain.TicketFilter{Status: &pending})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Status != domain.StatusPending {
		t.Fatalf("expected one pending ticket, got %+v", filtered)
	}
}

func TestSeededUsersAreHashed(t *testing.T) {
	t.Setenv("SEED_ADMIN_PASSWORD", "admin-pass-1")
	t.Setenv("SEED_TECHNICIAN_PASSWORD", "tech-pass-1")

	users, err := NewSeeded().ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 seeded users, got %d", len(users))
	}
	for _, user := range users {
		if user.Password == "admin-pass-1" || user.Password == "tech-pass-1" {
			t.Fatalf("expected hashed password for %s", user.Username)
		}
	}
}
