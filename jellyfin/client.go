package jellyfin

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

	"github.com/rs/zerolog"
)

// Device identifies the invoking client to the server. Jellyfin tracks
// sessions per device id, so the id must be stable across restarts.
type Device struct {
	Name    string
	ID      string
	Version string
}

// clientName is the application name reported in the Authorization header.
const clientName = "Remux"

// Client wraps the Jellyfin REST API for one server instance.
type Client struct {
	host       string
	username   string
	token      string
	userID     string
	device     Device
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a Jellyfin client. No network calls are made until
// Connect.
func NewClient(host, username string, device Device, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{
		host:       strings.TrimRight(host, "/"),
		username:   username,
		token:      options.token,
		userID:     options.userID,
		device:     device,
		httpClient: &http.Client{Timeout: options.timeout},
		logger:     logger,
	}, nil
}

// Host returns the server base URL.
func (c *Client) Host() string { return c.host }

// Username returns the configured user name.
func (c *Client) Username() string { return c.username }

// Token returns the current access token, empty before Connect.
func (c *Client) Token() string { return c.token }

// UserID returns the authenticated user id, empty before Connect.
func (c *Client) UserID() string { return c.userID }

// Connect exchanges the password for an access token, or validates a
// previously stored token. Only after a nil return are the other
// operations usable.
func (c *Client) Connect(ctx context.Context, password string) error {
	if c.token != "" && c.userID != "" {
		return c.validateToken(ctx)
	}
	return c.authenticate(ctx, password)
}

func (c *Client) authenticate(ctx context.Context, password string) error {
	body, err := json.Marshal(authRequest{Username: c.username, Password: password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/Users/AuthenticateByName", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.anonAuthHeader())

	var result AuthenticationResult
	if err := c.send(req, &result); err != nil {
		return err
	}
	if result.AccessToken == "" || result.User == nil || result.User.ID == "" {
		return fmt.Errorf("jellyfin: authentication response missing token or user")
	}

	c.token = result.AccessToken
	c.userID = result.User.ID
	c.logger.Debug().Str("user_id", c.userID).Msg("Authenticated with Jellyfin")
	return nil
}

// validateToken confirms a stored token is still accepted.
func (c *Client) validateToken(ctx context.Context) error {
	var user userDto
	return c.get(ctx, "/Users/Me", nil, &user)
}

func (c *Client) anonAuthHeader() string {
	return fmt.Sprintf(`Emby Client=%q, Device=%q, DeviceId=%q, Version=%q`,
		clientName, c.device.Name, c.device.ID, c.device.Version)
}

func (c *Client) authHeader() string {
	return fmt.Sprintf(`Emby UserId=%q, Token=%q, Client=%q, Device=%q, DeviceId=%q, Version=%q`,
		c.userID, c.token, clientName, c.device.Name, c.device.ID, c.device.Version)
}

// get performs an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	requestURL := c.host + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	return c.doAuthed(req, out)
}

// post performs an authenticated POST with an optional JSON body.
func (c *Client) post(ctx context.Context, endpoint string, params url.Values, body, out any) error {
	requestURL := c.host + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doAuthed(req, out)
}

// del performs an authenticated DELETE.
func (c *Client) del(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.host+endpoint, nil)
	if err != nil {
		return err
	}
	return c.doAuthed(req, nil)
}

func (c *Client) doAuthed(req *http.Request, out any) error {
	if c.token == "" {
		return ErrNotConnected
	}
	req.Header.Set("Authorization", c.authHeader())
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	c.logger.Trace().Str("method", req.Method).Str("url", req.URL.String()).Msg("Jellyfin request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("jellyfin request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 50<<20))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &APIError{StatusCode: resp.StatusCode, Endpoint: req.URL.Path, Body: string(body)}
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout time.Duration
	token   string
	userID  string
}

func defaultOptions() clientOptions {
	return clientOptions{timeout: 30 * time.Second}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithToken reuses a previously issued access token and user id instead of
// authenticating with a password.
func WithToken(token, userID string) Option {
	return func(o *clientOptions) {
		o.token = token
		o.userID = userID
	}
}
