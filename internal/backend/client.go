package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"ms-composer/internal/logger"
)

var (
	// ErrNotFound maps a backend 404; callers use it to detect stale ids.
	ErrNotFound = errors.New("resource not found")
	// ErrAuthExpired maps auth failures; the wizard surfaces these as a
	// re-authentication signal instead of a retryable step error.
	ErrAuthExpired = errors.New("authentication expired")
)

type tokenKey struct{}

// WithToken stores the caller's bearer token on the context. Every client
// call forwards it opaquely; the composer never validates tokens itself.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	return ""
}

// Client is the shared HTTP layer under every sub-resource client.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *logger.Logger
}

func NewClient(baseURL string, httpClient *http.Client, log *logger.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    httpClient,
		Logger:  log,
	}
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(ctx, req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("backend request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}
	return nil
}

// doMultipart uploads one file as multipart form data.
func (c *Client) doMultipart(ctx context.Context, path, field, filename string, data []byte, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setAuth(ctx, req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("backend upload to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(http.MethodPost, path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode upload response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) setAuth(ctx context.Context, req *http.Request) {
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) mapError(method, path string, resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body errorBody
	_ = json.Unmarshal(bodyBytes, &body)
	message := body.Message
	if message == "" {
		message = body.Error
	}
	if message == "" {
		message = strings.TrimSpace(string(bodyBytes))
	}
	if message == "" {
		message = resp.Status
	}

	if c.Logger != nil {
		c.Logger.Error("BACKEND", fmt.Sprintf("%s %s -> %d: %s", method, path, resp.StatusCode, message))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", message, ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", message, ErrAuthExpired)
	case looksLikeAuthFailure(message):
		// Some backend services answer auth problems with a generic status
		// but an auth-flavored message. Treat those the same way.
		return fmt.Errorf("%s: %w", message, ErrAuthExpired)
	default:
		return fmt.Errorf("backend error (%d): %s", resp.StatusCode, message)
	}
}

func looksLikeAuthFailure(message string) bool {
	lower := strings.ToLower(message)
	for _, marker := range []string{"unauthorized", "forbidden", "authentication", "token expired"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
