package query

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/remuxapp/remux/media"
	"github.com/remuxapp/remux/server"
)

// Service fronts a server instance with cached read operations. Listing
// queries and catalog lookups are memoized per user; mutations and
// playback go straight through so they always hit the backend.
type Service struct {
	server   *server.Instance
	logger   zerolog.Logger
	media    *Cache[[]media.Media]
	catalogs *Cache[[]media.Media]
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	ttl time.Duration
}

// WithTTL overrides the cache entry lifetime.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		o.ttl = ttl
	}
}

// NewService wraps srv with a result cache.
func NewService(srv *server.Instance, logger zerolog.Logger, opts ...ServiceOption) *Service {
	options := serviceOptions{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(&options)
	}

	return &Service{
		server:   srv,
		logger:   logger.With().Str("component", "query").Logger(),
		media:    NewCache[[]media.Media](options.ttl),
		catalogs: NewCache[[]media.Media](options.ttl),
	}
}

// Server exposes the underlying instance for uncached operations.
func (s *Service) Server() *server.Instance {
	return s.server
}

// GetMedia returns the items matching q, served from cache when a fresh
// result for the same user and query exists.
func (s *Service) GetMedia(ctx context.Context, q *media.Query) ([]media.Media, error) {
	key := s.key("media", q.Key())
	return s.media.Do(ctx, key, func(ctx context.Context) ([]media.Media, error) {
		s.logger.Debug().Str("key", key).Msg("cache miss, querying backend")
		return s.server.GetMedia(ctx, q)
	})
}

// GetCatalogs returns the server's catalogs, cached per user.
func (s *Service) GetCatalogs(ctx context.Context) ([]media.Media, error) {
	key := s.key("catalogs", "")
	return s.catalogs.Do(ctx, key, func(ctx context.Context) ([]media.Media, error) {
		s.logger.Debug().Str("key", key).Msg("cache miss, fetching catalogs")
		return s.server.GetCatalogs(ctx)
	})
}

// GetGenres lists the backend's genres. Genres change rarely but the
// call is cheap, so it is not cached.
func (s *Service) GetGenres(ctx context.Context) ([]media.Genre, error) {
	return s.server.GetGenres(ctx)
}

// GetMediaDetails passes straight through so detail views always see
// current user data.
func (s *Service) GetMediaDetails(ctx context.Context, id string) (*media.Media, error) {
	return s.server.GetMediaDetails(ctx, id)
}

// SetWatched marks an item watched or unwatched and drops cached
// listings, whose user data is now stale.
func (s *Service) SetWatched(ctx context.Context, watched bool, item *media.Media) error {
	if err := s.server.SetWatched(ctx, watched, item); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// SetFavorite toggles the favorite flag and drops cached listings.
func (s *Service) SetFavorite(ctx context.Context, favorite bool, item *media.Media) error {
	if err := s.server.SetFavorite(ctx, favorite, item); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) invalidate() {
	s.media.Clear()
	s.catalogs.Clear()
}

func (s *Service) key(operation, rest string) string {
	return fmt.Sprintf("%s-%s-%s", operation, s.server.UserID(), rest)
}
