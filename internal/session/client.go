package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"session_auth/internal/models"
)

const (
	signInPath     = "/auth/signin"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

// ErrMissingToken is returned when a 200 response carries no bearer token.
var ErrMissingToken = errors.New("sign-in response has no bearer token")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sign-in failed (%d): %s", e.Status, e.Message)
}

// Client signs in against the HTTP API and publishes the result into a Context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	state      *Context

	mu    sync.RWMutex
	token string
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL string, state *Context, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		state:      state,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignIn posts credentials and, on success, stores the token and marks the
// Context authenticated. On failure the Context is left untouched.
func (c *Client) SignIn(ctx context.Context, creds models.Credentials) error {
	body, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+signInPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sign-in request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	token, ok := bearerToken(resp.Header.Get("Authorization"))
	if !ok {
		return ErrMissingToken
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return fmt.Errorf("decode user: %w", err)
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	c.state.set(user)
	return nil
}

// Token returns the last issued access token, or "".
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
