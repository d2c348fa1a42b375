// Package server dispatches the canonical media operations to one of a
// closed set of backend adapters. Higher layers hold an *Instance and never
// a concrete adapter; adding a backend kind means adding one variant here
// and one forwarding arm per operation, nothing else.
package server

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/remuxapp/remux/capabilities"
	"github.com/remuxapp/remux/jellyfin"
	"github.com/remuxapp/remux/media"
	"github.com/remuxapp/remux/stremio"
)

// Kind tags the backend protocol a server speaks.
type Kind string

const (
	KindJellyfin Kind = "jellyfin"
	KindStremio  Kind = "stremio"
)

// ConnectionStatus is the dispatcher's connect state machine. Only
// StatusSuccess permits canonical operations.
type ConnectionStatus int

const (
	StatusUnknown ConnectionStatus = iota
	StatusSuccess
	StatusUnauthorized
	StatusUnreachable
	StatusTimeout
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusUnauthorized:
		return "unauthorized"
	case StatusUnreachable:
		return "unreachable"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Config is the persisted credential/connection record a server instance
// is reconstructed from. It is replaced wholesale, never mutated.
type Config struct {
	Kind     Kind     `mapstructure:"kind"`
	Host     string   `mapstructure:"host"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	Token    string   `mapstructure:"token"`
	UserID   string   `mapstructure:"user_id"`
	Addons   []string `mapstructure:"addons"`
}

// Instance is a closed union over the concrete adapters, selected once
// from Config.Kind.
type Instance struct {
	kind     Kind
	config   Config
	status   ConnectionStatus
	jellyfin *jellyfin.Client
	stremio  *stremio.Client
}

// NewInstance builds the adapter variant named by cfg.Kind. The instance
// starts in StatusUnknown; call Connect before any canonical operation.
func NewInstance(cfg Config, device jellyfin.Device, logger zerolog.Logger) (*Instance, error) {
	inst := &Instance{kind: cfg.Kind, config: cfg, status: StatusUnknown}

	switch cfg.Kind {
	case KindJellyfin:
		var opts []jellyfin.Option
		if cfg.Token != "" && cfg.UserID != "" {
			opts = append(opts, jellyfin.WithToken(cfg.Token, cfg.UserID))
		}
		client, err := jellyfin.NewClient(cfg.Host, cfg.Username, device, logger, opts...)
		if err != nil {
			return nil, err
		}
		inst.jellyfin = client
	case KindStremio:
		client, err := stremio.NewClient(cfg.Addons, logger)
		if err != nil {
			return nil, err
		}
		inst.stremio = client
	default:
		return nil, fmt.Errorf("unsupported server kind: %q", cfg.Kind)
	}

	return inst, nil
}

// Kind returns the backend variant tag.
func (s *Instance) Kind() Kind { return s.kind }

// Status returns the current connection status.
func (s *Instance) Status() ConnectionStatus { return s.status }

// Host returns the configured backend host.
func (s *Instance) Host() string { return s.config.Host }

// UserID returns the authenticated backend user id, empty for anonymous
// backends.
func (s *Instance) UserID() string {
	switch s.kind {
	case KindJellyfin:
		return s.jellyfin.UserID()
	case KindStremio:
		return s.stremio.UserID()
	}
	return ""
}

// IntoConfig returns the persistable record for this instance, including
// any token issued during Connect so the password need not be stored.
func (s *Instance) IntoConfig() Config {
	cfg := s.config
	if s.kind == KindJellyfin {
		cfg.Token = s.jellyfin.Token()
		cfg.UserID = s.jellyfin.UserID()
		cfg.Password = ""
	}
	return cfg
}

// Connect establishes the backend session and resolves the connection
// state machine: Unknown -> Success | Unauthorized | Unreachable | Timeout.
func (s *Instance) Connect(ctx context.Context) error {
	var err error
	switch s.kind {
	case KindJellyfin:
		err = s.jellyfin.Connect(ctx, s.config.Password)
	case KindStremio:
		err = s.stremio.Connect(ctx)
	default:
		return fmt.Errorf("unsupported server kind: %q", s.kind)
	}

	if err != nil {
		s.status = classifyConnectError(err)
		return fmt.Errorf("%w: %w", statusError(s.status), err)
	}
	s.status = StatusSuccess
	return nil
}

func (s *Instance) ready() error {
	if s.status != StatusSuccess {
		return statusError(s.status)
	}
	return nil
}

// GetMedia forwards the canonical media query to the active variant.
func (s *Instance) GetMedia(ctx context.Context, q *media.Query) ([]media.Media, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	switch s.kind {
	case KindJellyfin:
		return s.jellyfin.GetMedia(ctx, q)
	case KindStremio:
		return s.stremio.GetMedia(ctx, q)
	}
	return nil, fmt.Errorf("unsupported server kind: %q", s.kind)
}

// GetCatalogs lists backend catalogs plus the synthetic quick-access set.
func (s *Instance) GetCatalogs(ctx context.Context) ([]media.Media, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	switch s.kind {
	case KindJellyfin:
		return s.jellyfin.GetCatalogs(ctx)
	case KindStremio:
		return s.stremio.GetCatalogs(ctx)
	}
	return nil, fmt.Errorf("unsupported server kind: %q", s.kind)
}

// GetGenres lists the backend's genre filter values.
func (s *Instance) GetGenres(ctx context.Context) ([]media.Genre, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	switch s.kind {
	case KindJellyfin:
		return s.jellyfin.GetGenres(ctx)
	case KindStremio:
		return s.stremio.GetGenres(ctx)
	}
	return nil, fmt.Errorf("unsupported server kind: %q", s.kind)
}

// GetMediaDetails resolves one item by id; (nil, nil) when unknown.
func (s *Instance) GetMediaDetails(ctx context.Context, id string) (*media.Media, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	switch s.kind {
	case KindJellyfin:
		return s.jellyfin.GetMediaDetails(ctx, id)
	case KindStremio:
		return s.stremio.GetMediaDetails(ctx, id)
	}
	return nil, fmt.Errorf("unsupported server kind: %q", s.kind)
}

// NextUp returns the next unwatched episode of a series; empty for
// backends without the concept.
func (s *Instance) NextUp(ctx context.Context, series *media.Media) ([]media.Media, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	switch s.kind {
	case KindJellyfin:
		return s.jellyfin.NextUp(ctx, series)
	case KindStremio:
		return s.stremio.NextUp(ctx, series)
	}
	return nil, fmt.Errorf("unsupported server kind: %q", s.kind)
}

// SetWatched toggles an item's played flag.
func (s *Instance) SetWatched(ctx context.Context, watched bool, item *media.Media) error {
	if err := s.ready(); err != nil {
		return err
	}
	switch s.kind {
	case KindJellyfin:
		return s.jellyfin.SetWatched(ctx, watched, item)
	case KindStremio:
		return s.stremio.SetWatched(ctx, watched, item)
	}
	return fmt.Errorf("unsupported server kind: %q", s.kind)
}

// SetFavorite toggles an item's favorite flag.
func (s *Instance) SetFavorite(ctx context.Context, favorite bool, item *media.Media) error {
	if err := s.ready(); err != nil {
		return err
	}
	switch s.kind {
	case KindJellyfin:
		return s.jellyfin.SetFavorite(ctx, favorite, item)
	case KindStremio:
		return s.stremio.SetFavorite(ctx, favorite, item)
	}
	return fmt.Errorf("unsupported server kind: %q", s.kind)
}

// GetStreamURL negotiates a playback URL for an item against the client's
// capability profile.
func (s *Instance) GetStreamURL(ctx context.Context, item *media.Media, source *media.MediaSource, caps capabilities.Capabilities) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	switch s.kind {
	case KindJellyfin:
		return s.jellyfin.GetStreamURL(ctx, item, source, caps)
	case KindStremio:
		return s.stremio.GetStreamURL(ctx, item, source, caps)
	}
	return "", fmt.Errorf("unsupported server kind: %q", s.kind)
}

// ImageURL resolves an image reference without network I/O; ok is false
// when the item has no reference of that type.
func (s *Instance) ImageURL(item *media.Media, imageType media.ImageType) (string, bool) {
	switch s.kind {
	case KindJellyfin:
		return s.jellyfin.ImageURL(item, imageType)
	case KindStremio:
		return s.stremio.ImageURL(item, imageType)
	}
	return "", false
}
