// ABOUTME: HTTP client for the OAuth2 client-credentials protected ticket service
// ABOUTME: Caches the access token, serializes refresh, retries once on 401

package ticketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// tokenSkew is subtracted from the token expiry so a token close to expiring
// is refreshed before use instead of failing downstream.
const tokenSkew = time.Minute

const defaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned by GetTicketStatus for unknown ticket ids.
	ErrNotFound = errors.New("ticket not found")

	// errUnauthorized marks a 401 so the retry wrapper can refresh and retry.
	errUnauthorized = errors.New("unauthorized")
)

// Config holds the connection settings for the ticket service.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client talks to the ticket service. It owns the cached access token; all
// calls share it, and refresh is serialized so concurrent callers trigger at
// most one token exchange.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	logger       *slog.Logger

	// mu guards token and tokenExp. It is held across the exchange itself,
	// which is what gives refresh its single-flight semantics.
	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// New creates a ticket service client.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		logger:       logger.With("component", "ticketapi"),
	}
}

// ensureToken returns a usable bearer token, performing the client-credentials
// exchange if the cached one is missing or within the refresh skew of expiry.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp.Add(-tokenSkew)) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}

	c.token = tr.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	c.logger.Info("access token refreshed", "expires_in", tr.ExpiresIn)

	return c.token, nil
}

// invalidateToken clears the cached token so the next call fetches a fresh one.
// Cleared wholesale, never partially updated.
func (c *Client) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.tokenExp = time.Time{}
}

// withRetry runs call with a valid token, refreshing and retrying exactly once
// if the service rejects the bearer credential. A second 401 propagates as a
// plain failure; there is no retry loop.
func (c *Client) withRetry(ctx context.Context, call func(token string) error) error {
	for attempt := 0; ; attempt++ {
		token, err := c.ensureToken(ctx)
		if err != nil {
			return err
		}

		err = call(token)
		if errors.Is(err, errUnauthorized) && attempt == 0 {
			c.logger.Warn("token rejected by ticket service, refreshing and retrying")
			c.invalidateToken()
			continue
		}
		return err
	}
}

// CreateTicket submits a new ticket and returns its assigned id.
func (c *Client) CreateTicket(ctx context.Context, name, email, description string) (*CreateTicketResponse, error) {
	var out *CreateTicketResponse

	err := c.withRetry(ctx, func(token string) error {
		body, err := json.Marshal(createTicketRequest{Name: name, Email: email, Description: description})
		if err != nil {
			return fmt.Errorf("encoding create request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tickets", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("building create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("creating ticket: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized {
			return errUnauthorized
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("ticket service returned status %d", resp.StatusCode)
		}

		var created CreateTicketResponse
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			return fmt.Errorf("decoding create response: %w", err)
		}
		out = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetTicketStatus looks up an existing ticket by its canonical id.
// Returns ErrNotFound when the service does not know the id.
func (c *Client) GetTicketStatus(ctx context.Context, id string) (*TicketStatus, error) {
	var out *TicketStatus

	err := c.withRetry(ctx, func(token string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tickets/"+url.PathEscape(id), nil)
		if err != nil {
			return fmt.Errorf("building status request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fetching ticket status: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return errUnauthorized
		case resp.StatusCode == http.StatusNotFound:
			return ErrNotFound
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return fmt.Errorf("ticket service returned status %d", resp.StatusCode)
		}

		var status TicketStatus
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return fmt.Errorf("decoding status response: %w", err)
		}
		out = &status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
