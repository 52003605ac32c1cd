package backend

import (
	"context"
	"fmt"
	"net/http"

	"ms-composer/internal/models"
)

type ArtistClient struct {
	*Client
}

func NewArtistClient(c *Client) *ArtistClient {
	return &ArtistClient{Client: c}
}

func (c *ArtistClient) CreateArtist(ctx context.Context, a models.Artist) (*models.Artist, error) {
	var created models.Artist
	if err := c.do(ctx, http.MethodPost, "/artist", a, &created); err != nil {
		return nil, fmt.Errorf("failed to create artist %q: %w", a.Name, err)
	}
	return &created, nil
}
