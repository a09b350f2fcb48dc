package lorcana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production catalog service.
	DefaultBaseURL = "https://lorcana.brybry.fr/api"

	defaultTimeout   = 10 * time.Second
	rateLimitDelay   = 100 * time.Millisecond // polite pacing, 10 req/sec
	defaultUserAgent = "Lorcana-Companion/1.0"
)

// TokenSource supplies the current bearer token for authenticated calls.
// Session state implements it; the client never holds a token itself, so a
// login or logout is visible to every subsequent request.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to the TokenSource interface.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// ClientConfig holds configuration for the catalog client.
type ClientConfig struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string

	// Timeout bounds each request; expiry surfaces as ErrNetworkUnreachable.
	Timeout time.Duration

	// WireVersion selects the wishlist endpoint generation.
	WireVersion WireVersion

	// RateLimitDelay is the minimum spacing between requests (0 = default).
	RateLimitDelay time.Duration
}

// DefaultClientConfig returns a ClientConfig with production defaults.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:        DefaultBaseURL,
		Timeout:        defaultTimeout,
		WireVersion:    WireV2,
		RateLimitDelay: rateLimitDelay,
	}
}

// Client is a typed HTTP client for the Lorcana catalog service.
//
// It performs exactly one HTTP call per operation: no retries, no caching.
// Retry policy belongs to callers (the reconciler retries list loads, and
// only those, a bounded number of times).
type Client struct {
	config      *ClientConfig
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	tokens      TokenSource
	userAgent   string
}

// NewClient creates a catalog client. tokens may be nil for a client that
// only performs the unauthenticated register/login calls.
func NewClient(config *ClientConfig, tokens TokenSource) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.WireVersion == 0 {
		config.WireVersion = WireV2
	}
	delay := config.RateLimitDelay
	if delay <= 0 {
		delay = rateLimitDelay
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(delay), 1),
		tokens:      tokens,
		userAgent:   defaultUserAgent,
	}
}

// ListSets retrieves all card sets.
func (c *Client) ListSets(ctx context.Context) ([]Set, error) {
	var env dataEnvelope[[]Set]
	if err := c.doRequest(ctx, http.MethodGet, "/sets", nil, &env); err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return env.Data, nil
}

// GetSet retrieves a single set's details.
func (c *Client) GetSet(ctx context.Context, setID int) (*Set, error) {
	var env dataEnvelope[Set]
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/sets/%d", setID), nil, &env); err != nil {
		return nil, fmt.Errorf("get set %d: %w", setID, err)
	}
	return &env.Data, nil
}

// ListSetCards retrieves all cards of a set.
func (c *Client) ListSetCards(ctx context.Context, setID int) ([]Card, error) {
	var env dataEnvelope[[]rawCard]
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/sets/%d/cards", setID), nil, &env); err != nil {
		return nil, fmt.Errorf("list cards of set %d: %w", setID, err)
	}
	return normalizeCards(env.Data), nil
}

// ListUserCards retrieves the user's owned quantities. The result is sparse:
// only cards with a nonzero quantity appear (zero-filled rows some server
// versions emit are dropped at the wire boundary).
func (c *Client) ListUserCards(ctx context.Context) ([]OwnedQuantity, error) {
	var env dataEnvelope[[]rawOwned]
	if err := c.doRequest(ctx, http.MethodGet, "/me/cards", nil, &env); err != nil {
		return nil, fmt.Errorf("list user cards: %w", err)
	}
	return normalizeOwned(env.Data), nil
}

// SetOwnedQuantity sets both quantity variants of a card. Idempotent:
// posting the same values again succeeds.
func (c *Client) SetOwnedQuantity(ctx context.Context, cardID, normal, foil int) error {
	body := struct {
		Normal int `json:"normal"`
		Foil   int `json:"foil"`
	}{Normal: normal, Foil: foil}
	if err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/me/%d/update-owned", cardID), body, nil); err != nil {
		return fmt.Errorf("set owned quantity of card %d: %w", cardID, err)
	}
	return nil
}

// ListWishlist retrieves the wishlisted cards. Membership is implicit:
// presence in the returned slice means the card is wishlisted.
func (c *Client) ListWishlist(ctx context.Context) ([]Card, error) {
	var env dataEnvelope[[]rawCard]
	if err := c.doRequest(ctx, http.MethodGet, "/wishlist", nil, &env); err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return normalizeCards(env.Data), nil
}

// AddToWishlist adds a card to the wishlist. Returns ErrAlreadyInWishlist
// when the card is already there; callers treat that as confirmation.
func (c *Client) AddToWishlist(ctx context.Context, cardID int) error {
	var err error
	switch c.config.WireVersion {
	case WireV1:
		body := struct {
			CardID int `json:"cardId"`
		}{CardID: cardID}
		err = c.doRequest(ctx, http.MethodPost, "/wishlist", body, nil)
	default:
		body := struct {
			CardID int `json:"card_id"`
		}{CardID: cardID}
		err = c.doRequest(ctx, http.MethodPost, "/wishlist/add", body, nil)
	}
	if err != nil {
		if conflict := conflictFrom(err, true); conflict != nil {
			return conflict
		}
		return fmt.Errorf("add card %d to wishlist: %w", cardID, err)
	}
	return nil
}

// RemoveFromWishlist removes a card from the wishlist. Returns
// ErrNotInWishlist when the card is absent; callers treat that as
// confirmation.
func (c *Client) RemoveFromWishlist(ctx context.Context, cardID int) error {
	var err error
	switch c.config.WireVersion {
	case WireV1:
		err = c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/wishlist/%d", cardID), nil, nil)
	default:
		body := struct {
			CardID int `json:"card_id"`
		}{CardID: cardID}
		err = c.doRequest(ctx, http.MethodPost, "/wishlist/remove", body, nil)
	}
	if err != nil {
		if conflict := conflictFrom(err, false); conflict != nil {
			return conflict
		}
		return fmt.Errorf("remove card %d from wishlist: %w", cardID, err)
	}
	return nil
}

// conflictFrom extracts an absorbed wishlist conflict from a request error.
func conflictFrom(err error, adding bool) error {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return nil
	}
	return classifyWishlistConflict(reqErr.StatusCode, reqErr.Message, adding)
}

// doRequest performs a single rate-limited HTTP request and maps the
// response onto the error taxonomy. result may be nil for ack-only
// endpoints.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// No response at all: transport failure or timeout.
		return fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrNetworkUnreachable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if result == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, result); err != nil {
			// 2xx with an HTML body means a proxy or maintenance page
			// answered in the service's place.
			return fmt.Errorf("%w: unexpected response body", ErrServiceUnavailable)
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized

	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)

	default:
		var errBody errorBody
		if err := json.Unmarshal(respBody, &errBody); err != nil || looksLikeHTML(respBody) {
			// Non-JSON 4xx bodies (HTML error pages) count as the
			// service being down.
			return fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
		}
		return &RequestError{StatusCode: resp.StatusCode, Message: errBody.Message}
	}
}

func looksLikeHTML(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "<!DOCTYPE") || strings.HasPrefix(trimmed, "<html")
}
