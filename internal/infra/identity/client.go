package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"obotcall/internal/config"
	"obotcall/internal/domain"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	verifyPath         = "/v1/tokens/verify"
)

// Client verifies opaque bearer tokens against the external identity
// provider. Provider rejection and transport failure are both reported as
// domain.ErrUnauthenticated; the caller is never told which occurred.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClientFromConfig(cfg config.Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.IdentityBaseURL)
	if baseURL == "" {
		return nil, errors.New("IDENTITY_BASE_URL is required")
	}
	timeout := cfg.IdentityTimeout()
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: strings.TrimSpace(cfg.IdentityServiceKey),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func NewClient(baseURL, serviceKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: httpClient,
	}
}

func (c *Client) Verify(ctx context.Context, token string) (string, error) {
	if c == nil {
		return "", domain.ErrUnauthenticated
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return "", domain.ErrUnauthenticated
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+verifyPath, bytes.NewReader(body))
	if err != nil {
		return "", domain.ErrUnauthenticated
	}
	req.Header.Set("Content-Type", "application/json")
	if c.serviceKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.ErrUnauthenticated
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domain.ErrUnauthenticated
	}
	var payload struct {
		Sub string `json:"sub"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", domain.ErrUnauthenticated
	}
	if payload.Sub == "" {
		return "", domain.ErrUnauthenticated
	}
	return payload.Sub, nil
}
