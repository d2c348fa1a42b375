package stremio

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/remuxapp/remux/capabilities"
	"github.com/remuxapp/remux/media"
)

func toMediaType(addonType string) media.MediaType {
	switch addonType {
	case "movie":
		return media.TypeMovie
	case "series", "tv":
		return media.TypeSeries
	default:
		return media.TypeMovie
	}
}

func fromMediaType(t media.MediaType) string {
	switch t {
	case media.TypeSeries, media.TypeSeason, media.TypeEpisode:
		return "series"
	default:
		return "movie"
	}
}

// toMedia maps an addon meta item into the canonical model. Stremio image
// references are absolute URLs, carried through unchanged.
func toMedia(meta MetaItem) media.Media {
	return media.Media{
		ID:          meta.ID,
		Title:       meta.Name,
		Type:        toMediaType(meta.Type),
		Description: meta.Description,
		Poster:      meta.Poster,
		Backdrop:    meta.Background,
		Logo:        meta.Logo,
		Genres:      meta.Genres,
		Enabled:     true,
	}
}

// GetMedia serves a canonical query from the addon catalogs. The synthetic
// catalogs have no addon-side concept and return empty pages; a
// non-synthetic catalog id selects the addon catalog of that id, and a
// plain search runs against the first search-capable catalog.
func (c *Client) GetMedia(ctx context.Context, q *media.Query) ([]media.Media, error) {
	addons := c.Addons()
	if len(addons) == 0 {
		return nil, ErrNotConnected
	}

	if q.ForCatalog != nil && media.IsSyntheticCatalog(q.ForCatalog.ID) {
		return []media.Media{}, nil
	}

	addon, catalog := c.resolveCatalog(q)
	if addon == nil {
		return []media.Media{}, nil
	}

	extra := url.Values{}
	if q.Offset > 0 {
		// Without the skip extra the addon can only serve its first page.
		// Refetching it would feed duplicates to the pagination layer.
		if !catalog.SupportsExtra("skip") {
			return []media.Media{}, nil
		}
		extra.Set("skip", strconv.Itoa(q.Offset))
	}
	if q.Search != "" {
		extra.Set("search", q.Search)
	}
	if len(q.Genres) > 0 && catalog.SupportsExtra("genre") {
		extra.Set("genre", q.Genres[0].Name)
	}

	endpoint := fmt.Sprintf("%s/catalog/%s/%s.json", addon.URL, catalog.Type, url.PathEscape(catalog.ID))
	if len(extra) > 0 {
		endpoint += "?" + extra.Encode()
	}

	var resp CatalogResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	items := make([]media.Media, 0, len(resp.Metas))
	for _, meta := range resp.Metas {
		items = append(items, toMedia(meta))
	}
	if q.Limit > 0 && len(items) > q.Limit {
		items = items[:q.Limit]
	}

	c.logger.Debug().
		Str("catalog", catalog.ID).
		Int("count", len(items)).
		Msg("Retrieved media from addon catalog")
	return items, nil
}

// resolveCatalog picks the addon catalog a query targets: the catalog named
// by ForCatalog, else the first catalog matching the queried types (a
// search-capable one when the query carries a search term).
func (c *Client) resolveCatalog(q *media.Query) (*Addon, *CatalogRef) {
	wantType := "movie"
	if len(q.Types) > 0 {
		wantType = fromMediaType(q.Types[0])
	}

	for _, addon := range c.Addons() {
		for i := range addon.Manifest.Catalogs {
			catalog := &addon.Manifest.Catalogs[i]
			if q.ForCatalog != nil {
				if catalog.ID == q.ForCatalog.ID {
					return addon, catalog
				}
				continue
			}
			if catalog.Type != wantType {
				continue
			}
			if q.Search != "" && !catalog.SupportsExtra("search") {
				continue
			}
			return addon, catalog
		}
	}
	return nil, nil
}

// GetCatalogs lists every catalog the loaded addons declare, plus the
// synthetic quick-access set in the same positions the Jellyfin adapter
// uses.
func (c *Client) GetCatalogs(ctx context.Context) ([]media.Media, error) {
	addons := c.Addons()
	if len(addons) == 0 {
		return nil, ErrNotConnected
	}

	var catalogs []media.Media
	for _, addon := range addons {
		for _, ref := range addon.Manifest.Catalogs {
			catalogs = append(catalogs, media.Catalog(ref.ID, ref.Name))
		}
	}

	catalogs = append(catalogs, media.Catalog(media.CatalogLatest, "Latest"))
	catalogs = append(catalogs, media.Catalog(media.CatalogFavorites, "Favorites"))
	continueWatching := media.Catalog(media.CatalogContinueWatching, "Continue Watching")
	catalogs = append(catalogs[:1], append([]media.Media{continueWatching}, catalogs[1:]...)...)

	return catalogs, nil
}

// GetGenres surfaces the genre options addon catalogs declare in their
// extra properties. Addons without genre extras yield an empty list.
func (c *Client) GetGenres(ctx context.Context) ([]media.Genre, error) {
	seen := make(map[string]bool)
	var genres []media.Genre
	for _, addon := range c.Addons() {
		for _, catalog := range addon.Manifest.Catalogs {
			for _, extra := range catalog.Extra {
				if extra.Name != "genre" {
					continue
				}
				for _, option := range extra.Options {
					if seen[option] {
						continue
					}
					seen[option] = true
					genres = append(genres, media.Genre{ID: option, Name: option})
				}
			}
		}
	}
	return genres, nil
}

// GetMediaDetails resolves a meta by id, probing the movie then the series
// namespace since a bare id carries no type. Misses in both return
// (nil, nil).
func (c *Client) GetMediaDetails(ctx context.Context, id string) (*media.Media, error) {
	addons := c.Addons()
	if len(addons) == 0 {
		return nil, ErrNotConnected
	}

	for _, metaType := range []string{"movie", "series"} {
		for _, addon := range addons {
			endpoint := fmt.Sprintf("%s/meta/%s/%s.json", addon.URL, metaType, url.PathEscape(id))
			var resp MetaResponse
			err := c.getJSON(ctx, endpoint, &resp)
			if err != nil {
				var apiErr *APIError
				if errors.As(err, &apiErr) && apiErr.IsNotFound() {
					continue
				}
				return nil, err
			}
			if resp.Meta.ID == "" {
				continue
			}
			m := toMedia(resp.Meta)
			return &m, nil
		}
	}
	return nil, nil
}

// NextUp has no addon-side concept and always returns an empty list.
func (c *Client) NextUp(ctx context.Context, series *media.Media) ([]media.Media, error) {
	return []media.Media{}, nil
}

// SetWatched is a no-op: addons carry no per-user playback state.
func (c *Client) SetWatched(ctx context.Context, watched bool, item *media.Media) error {
	return nil
}

// SetFavorite is a no-op: addons carry no per-user playback state.
func (c *Client) SetFavorite(ctx context.Context, favorite bool, item *media.Media) error {
	return nil
}

// GetStreamURL asks each addon for streams and returns the first offered
// URL. Addons serve ready-to-play URLs, so capability negotiation does not
// apply here.
func (c *Client) GetStreamURL(ctx context.Context, item *media.Media, source *media.MediaSource, caps capabilities.Capabilities) (string, error) {
	addons := c.Addons()
	if len(addons) == 0 {
		return "", ErrNotConnected
	}

	streamType := fromMediaType(item.Type)
	for _, addon := range addons {
		endpoint := fmt.Sprintf("%s/stream/%s/%s.json", addon.URL, streamType, url.PathEscape(item.ID))
		var resp StreamResponse
		err := c.getJSON(ctx, endpoint, &resp)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.IsNotFound() {
				continue
			}
			return "", err
		}
		for _, stream := range resp.Streams {
			if stream.URL != "" {
				return stream.URL, nil
			}
		}
	}
	return "", ErrNoStream
}

// ImageURL returns the item's image reference; addon images are already
// absolute URLs.
func (c *Client) ImageURL(item *media.Media, imageType media.ImageType) (string, bool) {
	var ref string
	switch imageType {
	case media.ImagePoster:
		ref = item.Poster
	case media.ImageBackdrop:
		ref = item.Backdrop
	case media.ImageLogo:
		ref = item.Logo
	case media.ImageThumb:
		ref = item.Thumb
	}
	return ref, ref != ""
}
