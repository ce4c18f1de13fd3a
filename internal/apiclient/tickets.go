package apiclient

import (
	"context"
	"net/url"

	"repairdesk/internal/domain"
)

const servicesPath = "/api/services"

func ticketPath(id string) string {
	return servicesPath + "/" + url.PathEscape(id)
}

func (c *Client) ListTickets(ctx context.Context) ([]domain.ServiceTicket, error) {
	var tickets []domain.ServiceTicket
	if err := c.Get(ctx, servicesPath, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *Client) GetTicket(ctx context.Context, id string) (*domain.ServiceTicket, error) {
	var ticket domain.ServiceTicket
	if err := c.Get(ctx, ticketPath(id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *Client) CreateTicket(ctx context.Context, ticket domain.ServiceTicket) (*domain.ServiceTicket, error) {
	ticket.ID = ""
	var created domain.ServiceTicket
	if err := c.Post(ctx, servicesPath, ticket, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateTicket(ctx context.Context, id string, ticket domain.ServiceTicket) (*domain.ServiceTicket, error) {
	var updated domain.ServiceTicket
	if err := c.Put(ctx, ticketPath(id), ticket, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Login exchanges staff credentials for a bearer token and keeps it for
// subsequent calls.
func (c *Client) Login(ctx context.Context, username string, password string) (domain.LoginResponse, error) {
	var resp domain.LoginResponse
	err := c.Post(ctx, "/api/auth/login", domain.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	c.token = resp.AccessToken
	return resp, nil
}
