package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ms-composer/internal/models"
)

type VenueClient struct {
	*Client
}

func NewVenueClient(c *Client) *VenueClient {
	return &VenueClient{Client: c}
}

func (c *VenueClient) CreateVenue(ctx context.Context, v models.Venue) (*models.Venue, error) {
	var created models.Venue
	if err := c.do(ctx, http.MethodPost, "/venue", v, &created); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}
	return &created, nil
}

// UpdateVenue updates in place. A stale venue id surfaces as ErrNotFound and
// the caller falls back to CreateVenue rather than failing the step.
func (c *VenueClient) UpdateVenue(ctx context.Context, v models.Venue) error {
	if v.ID == "" {
		return fmt.Errorf("venue id is required for update")
	}
	return c.do(ctx, http.MethodPut, "/venue/"+url.PathEscape(v.ID), v, nil)
}
