// Package desk holds the ticket workflows a front end drives: the create
// form, the detail view and its edit submit. Front ends plug in how
// notifications are shown and how "back to the list" happens.
package desk

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"repairdesk/internal/apiclient"
	"repairdesk/internal/config"
	"repairdesk/internal/domain"
)

var ErrTicketNotFound = errors.New("service not found")

type TicketAPI interface {
	ListTickets(ctx context.Context) ([]domain.ServiceTicket, error)
	GetTicket(ctx context.Context, id string) (*domain.ServiceTicket, error)
	CreateTicket(ctx context.Context, ticket domain.ServiceTicket) (*domain.ServiceTicket, error)
	UpdateTicket(ctx context.Context, id string, ticket domain.ServiceTicket) (*domain.ServiceTicket, error)
}

type Notifier interface {
	Success(message string)
	Error(message string)
}

type Navigator interface {
	ToList()
}

type Desk struct {
	api       TicketAPI
	notifier  Notifier
	navigator Navigator
	lookup    config.LookupMode
}

func New(api TicketAPI, notifier Notifier, navigator Navigator, lookup config.LookupMode) *Desk {
	if lookup == "" {
		lookup = config.LookupAuto
	}
	return &Desk{
		api:       api,
		notifier:  notifier,
		navigator: navigator,
		lookup:    lookup,
	}
}

// Detail is what the detail view shows for one ticket.
type Detail struct {
	Ticket        domain.ServiceTicket
	ComputedTotal domain.Amount
	Amount        domain.Amount
	Status        domain.Status
}

func newDetail(ticket domain.ServiceTicket) *Detail {
	return &Detail{
		Ticket:        ticket,
		ComputedTotal: ticket.ComputedTotal(),
		Amount:        ticket.Amount(),
		Status:        ticket.Status,
	}
}

// Create validates the form and posts a new pending ticket. Validation
// failures return before any request is made and are not notified; the
// caller shows them next to the fields.
func (d *Desk) Create(ctx context.Context, form domain.TicketForm) (*domain.ServiceTicket, error) {
	ticket, err := domain.PrepareCreate(form)
	if err != nil {
		return nil, err
	}

	created, err := d.api.CreateTicket(ctx, ticket)
	if err != nil {
		log.Printf("[desk] error saving service: %v", err)
		d.notifier.Error(failureMessage("Failed to save service", err))
		return nil, err
	}

	d.notifier.Success("Service added successfully")
	d.navigator.ToList()
	return created, nil
}

// Open loads one ticket for the detail view. A ticket that does not exist
// sends the user back to the list.
func (d *Desk) Open(ctx context.Context, id string) (*Detail, error) {
	ticket, err := d.find(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			d.notifier.Error("Service not found")
			d.navigator.ToList()
			return nil, err
		}
		log.Printf("[desk] error fetching service id=%s: %v", id, err)
		d.notifier.Error(failureMessage("Failed to fetch service", err))
		return nil, err
	}
	return newDetail(*ticket), nil
}

// Update recomputes totals and status from the edit form and replaces the
// loaded ticket.
func (d *Desk) Update(ctx context.Context, detail *Detail, form domain.TicketForm) (*domain.ServiceTicket, error) {
	if detail == nil || detail.Ticket.ID == "" {
		return nil, ErrTicketNotFound
	}

	ticket, err := domain.PrepareUpdate(detail.Ticket, form)
	if err != nil {
		return nil, err
	}

	updated, err := d.api.UpdateTicket(ctx, detail.Ticket.ID, ticket)
	if err != nil {
		log.Printf("[desk] error saving service id=%s: %v", detail.Ticket.ID, err)
		d.notifier.Error(failureMessage("Failed to save service", err))
		return nil, err
	}
	if updated == nil || updated.ID == "" {
		updated = &ticket
	}

	d.notifier.Success("Service updated successfully")
	d.navigator.ToList()
	return updated, nil
}

// List returns every ticket, optionally narrowed to one status on the client.
func (d *Desk) List(ctx context.Context, filter domain.TicketFilter) ([]domain.ServiceTicket, error) {
	tickets, err := d.api.ListTickets(ctx)
	if err != nil {
		log.Printf("[desk] error listing services: %v", err)
		d.notifier.Error(failureMessage("Failed to fetch services", err))
		return nil, err
	}
	if filter.Status == nil {
		return tickets, nil
	}

	out := make([]domain.ServiceTicket, 0, len(tickets))
	for _, ticket := range tickets {
		if ticket.Status == *filter.Status {
			out = append(out, ticket)
		}
	}
	return out, nil
}

func (d *Desk) find(ctx context.Context, id string) (*domain.ServiceTicket, error) {
	if id == "" {
		return nil, ErrTicketNotFound
	}

	switch d.lookup {
	case config.LookupScan:
		return d.scan(ctx, id)
	case config.LookupSingle:
		ticket, err := d.api.GetTicket(ctx, id)
		if errors.Is(err, apiclient.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return ticket, err
	default:
		ticket, err := d.api.GetTicket(ctx, id)
		if err == nil {
			return ticket, nil
		}
		if !singleFetchUnsupported(err) {
			return nil, err
		}
		return d.scan(ctx, id)
	}
}

// scan reads the whole collection and picks the matching record. It serves
// backends that have no single-ticket endpoint.
func (d *Desk) scan(ctx context.Context, id string) (*domain.ServiceTicket, error) {
	tickets, err := d.api.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == id {
			return &tickets[i], nil
		}
	}
	return nil, ErrTicketNotFound
}

func singleFetchUnsupported(err error) bool {
	var reqErr *apiclient.RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	switch reqErr.StatusCode {
	case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	}
	return false
}

func failureMessage(base string, err error) string {
	switch apiclient.KindOf(err) {
	case apiclient.KindTransport:
		return base + " (backend unreachable)"
	case apiclient.KindNotFound:
		return base + " (not found)"
	case apiclient.KindClient:
		return base + " (request rejected)"
	case apiclient.KindServer:
		return base + " (server error)"
	case apiclient.KindDecode:
		return base + " (unexpected response)"
	}
	return base
}
