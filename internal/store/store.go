package store

import (
	"context"
	"errors"

	"repairdesk/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTicket     = errors.New("invalid ticket")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidUser       = errors.New("invalid user")
	ErrConflict          = errors.New("already exists")
)

type Repository interface {
	ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.ServiceTicket, error)
	GetTicket(ctx context.Context, id string) (*domain.ServiceTicket, error)
	CreateTicket(ctx context.Context, ticket domain.ServiceTicket) (*domain.ServiceTicket, error)
	UpdateTicket(ctx context.Context, ticket domain.ServiceTicket) (*domain.ServiceTicket, error)
	CreateUser(ctx context.Context, user domain.StaffAccount) error
	ListUsers(ctx context.Context) ([]domain.StaffAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
