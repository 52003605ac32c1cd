package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ms-composer/internal/models"
)

type TicketClient struct {
	*Client
}

func NewTicketClient(c *Client) *TicketClient {
	return &TicketClient{Client: c}
}

func (c *TicketClient) CreateTicket(ctx context.Context, t models.Ticket) (*models.Ticket, error) {
	var created models.Ticket
	if err := c.do(ctx, http.MethodPost, "/ticket", t, &created); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return &created, nil
}

func (c *TicketClient) DeleteTicket(ctx context.Context, ticketID string) error {
	if err := c.do(ctx, http.MethodDelete, "/ticket/"+url.PathEscape(ticketID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete ticket %s: %w", ticketID, err)
	}
	return nil
}
