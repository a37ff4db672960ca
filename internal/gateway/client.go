// Package gateway is the client's only path to the concierge backend. Every
// call is a single request with no retry; callers translate failures for users.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tableside/concierge/internal/logging"
	"github.com/tableside/concierge/internal/model/account"
	"github.com/tableside/concierge/internal/model/chat"
	"github.com/tableside/concierge/internal/model/restaurant"
	"github.com/tableside/concierge/internal/model/review"
)

const maxResponseBytes = 1 << 20

// TokenSource supplies the bearer token for authenticated calls. An empty
// token sends no Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client performs the backend requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client; its Timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logging.OrNop(logger).Named("gateway") }
}

// New returns a Client for baseURL (e.g. http://localhost:5555/api/v1) with a
// fixed per-request timeout.
func New(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChatRequest is the body of POST /ai/chat.
type ChatRequest struct {
	AgentID      string `json:"ai_agent_id"`
	Message      string `json:"message"`
	RestaurantID string `json:"restaurant_id,omitempty"`
	TableID      string `json:"table_id,omitempty"`
}

type chatResponse struct {
	Message string `json:"message"`
}

type historyResponse struct {
	Messages []chat.Message `json:"messages"`
}

// Signup registers a patron account. The token may be empty if the backend
// does not log new accounts in.
func (c *Client) Signup(ctx context.Context, email, password string) (account.TokenResponse, error) {
	var out account.TokenResponse
	body := account.Credentials{Email: email, Password: password, Role: account.RoleUser}
	err := c.do(ctx, "signup", http.MethodPost, "/auth/register", body, &out)
	return out, err
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (account.TokenResponse, error) {
	var out account.TokenResponse
	body := account.Credentials{Email: email, Password: password}
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", body, &out)
	return out, err
}

// GetUser returns the account behind the current token.
func (c *Client) GetUser(ctx context.Context) (account.Account, error) {
	var out account.Account
	err := c.do(ctx, "get user", http.MethodGet, "/auth/user", nil, &out)
	return out, err
}

// GetProfile fetches the capability profile of a restaurant.
func (c *Client) GetProfile(ctx context.Context, restaurantID, tableID string) (restaurant.Profile, error) {
	path := "/profile/restaurant/" + url.PathEscape(restaurantID)
	if tableID != "" {
		path += "?" + url.Values{"tableId": {tableID}}.Encode()
	}
	var out restaurant.Profile
	err := c.do(ctx, "get profile", http.MethodGet, path, nil, &out)
	return out, err
}

// SendChatMessage posts one patron message and returns the concierge reply.
func (c *Client) SendChatMessage(ctx context.Context, req ChatRequest) (string, error) {
	var out chatResponse
	if err := c.do(ctx, "send chat", http.MethodPost, "/ai/chat", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// SendAudioMessage posts to the audio chat endpoint. The response shape is
// not fixed, so the raw JSON is returned.
func (c *Client) SendAudioMessage(ctx context.Context, message string) (json.RawMessage, error) {
	var out json.RawMessage
	body := map[string]string{"message": message}
	if err := c.do(ctx, "send audio", http.MethodPost, "/ai/audio-chat", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetChatHistory returns the stored conversation of the current account.
func (c *Client) GetChatHistory(ctx context.Context) ([]chat.Message, error) {
	var out historyResponse
	if err := c.do(ctx, "chat history", http.MethodGet, "/ai/chat-messages", nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// PostReview submits a review for restaurantID. An empty draft sentiment is
// left for the backend to infer; the receipt carries its verdict.
func (c *Client) PostReview(ctx context.Context, restaurantID string, draft review.Draft) (review.Receipt, error) {
	path := "/post-review/" + url.PathEscape(restaurantID)
	var receipt review.Receipt
	if err := c.do(ctx, "post review", http.MethodPost, path, draft, &receipt); err != nil {
		return review.Receipt{}, err
	}
	return receipt, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &RequestError{Op: op, Transport: true, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &RequestError{Op: op, Status: resp.StatusCode, Transport: true, Err: err}
	}

	c.logger.Debug("request completed",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Op: op, Status: resp.StatusCode, ServerMessage: serverMessage(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// serverMessage pulls a human-readable message out of an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(payload.Error)
}
