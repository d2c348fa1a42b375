package stremio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultAddonURL is used when no addons are configured.
const DefaultAddonURL = "https://v3-cinemeta.strem.io"

// Addon is one installed addon: its base URL and the manifest fetched from
// it at connect time.
type Addon struct {
	URL      string
	Manifest *Manifest
}

// Client serves the canonical operation set from a set of Stremio-style
// addons.
type Client struct {
	addonURLs  []string
	httpClient *http.Client
	logger     zerolog.Logger

	mu     sync.RWMutex
	addons []*Addon
}

// NewClient creates a Stremio client over the given addon base URLs. No
// network calls are made until Connect.
func NewClient(addonURLs []string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if len(addonURLs) == 0 {
		addonURLs = []string{DefaultAddonURL}
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	urls := make([]string, len(addonURLs))
	for i, u := range addonURLs {
		if u == "" {
			return nil, fmt.Errorf("%w: empty addon URL", ErrInvalidConfig)
		}
		urls[i] = strings.TrimSuffix(strings.TrimRight(u, "/"), "/manifest.json")
	}

	return &Client{
		addonURLs:  urls,
		httpClient: &http.Client{Timeout: options.timeout},
		logger:     logger,
	}, nil
}

// Connect fetches every configured addon manifest concurrently. All
// manifests must load; a dead addon fails the connect so the caller can
// surface it instead of silently serving partial catalogs.
func (c *Client) Connect(ctx context.Context) error {
	addons := make([]*Addon, len(c.addonURLs))

	g, ctx := errgroup.WithContext(ctx)
	for i, addonURL := range c.addonURLs {
		i, addonURL := i, addonURL
		g.Go(func() error {
			var manifest Manifest
			if err := c.getJSON(ctx, addonURL+"/manifest.json", &manifest); err != nil {
				return fmt.Errorf("addon %s: %w", addonURL, err)
			}
			addons[i] = &Addon{URL: addonURL, Manifest: &manifest}
			c.logger.Debug().Str("addon", manifest.Name).Str("url", addonURL).Msg("Loaded addon manifest")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	c.addons = addons
	c.mu.Unlock()
	return nil
}

// Addons returns the loaded addon set, empty before Connect.
func (c *Client) Addons() []*Addon {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.addons
}

// UserID returns the backend user id. Addons are anonymous, so it is
// always empty.
func (c *Client) UserID() string { return "" }

func (c *Client) getJSON(ctx context.Context, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stremio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		parsed, _ := url.Parse(requestURL)
		endpoint := requestURL
		if parsed != nil {
			endpoint = parsed.Path
		}
		return &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 50<<20))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
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
