package jellyfin

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/remuxapp/remux/media"
)

// itemFields are requested on every item listing so the canonical model can
// be populated in one round trip.
const itemFields = "Overview,Genres,MediaSources,MediaStreams,DateCreated"

// GetMedia translates a canonical query into Jellyfin Items parameters and
// returns the canonical page. Catalog identity fixes the backend policy:
// "favorites" forces IsFavorite, "continue_watching" forces IsResumable,
// "latest" forces a descending DateCreated sort, any other catalog id is a
// parent-scope filter that wins over Parent.
func (c *Client) GetMedia(ctx context.Context, q *media.Query) ([]media.Media, error) {
	params := url.Values{}
	params.Set("Recursive", "true")
	params.Set("Limit", strconv.Itoa(q.Limit))
	params.Set("StartIndex", strconv.Itoa(q.Offset))
	params.Set("Fields", itemFields)
	params.Set("UserId", c.userID)
	if kinds := includeItemTypes(q.Types); kinds != "" {
		params.Set("IncludeItemTypes", kinds)
	}

	if parent := parentScope(q); parent != "" {
		params.Set("ParentId", parent)
	}
	if q.Search != "" {
		params.Set("SearchTerm", q.Search)
	}
	if len(q.Genres) > 0 {
		names := make([]string, len(q.Genres))
		for i, g := range q.Genres {
			names[i] = g.Name
		}
		params.Set("Genres", strings.Join(names, "|"))
	}

	if q.ForCatalog != nil {
		switch q.ForCatalog.ID {
		case media.CatalogFavorites:
			params.Set("Filters", "IsFavorite")
		case media.CatalogContinueWatching:
			params.Set("Filters", "IsResumable")
		case media.CatalogLatest:
			params.Set("SortBy", "DateCreated")
			params.Set("SortOrder", "Descending")
		}
	}

	var resp itemsResponse
	if err := c.get(ctx, "/Items", params, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("count", len(resp.Items)).
		Int("offset", q.Offset).
		Msg("Retrieved media from Jellyfin")

	return toMediaList(resp.Items), nil
}

// parentScope resolves which id, if any, scopes the query. A non-synthetic
// catalog id takes precedence over an explicit parent.
func parentScope(q *media.Query) string {
	if q.ForCatalog != nil && !media.IsSyntheticCatalog(q.ForCatalog.ID) {
		return q.ForCatalog.ID
	}
	if q.Parent != nil {
		return q.Parent.ID
	}
	return ""
}

// GetCatalogs lists the server's collections and injects the synthetic
// quick-access catalogs: "latest" and "favorites" appended at the end,
// "continue_watching" inserted at index 1.
func (c *Client) GetCatalogs(ctx context.Context) ([]media.Media, error) {
	params := url.Values{}
	params.Set("IncludeItemTypes", itemTypeBoxSet)
	params.Set("Recursive", "true")
	params.Set("Limit", "100")
	params.Set("UserId", c.userID)

	var resp itemsResponse
	if err := c.get(ctx, "/Items", params, &resp); err != nil {
		return nil, err
	}

	catalogs := toMediaList(resp.Items)
	catalogs = append(catalogs, media.Catalog(media.CatalogLatest, "Latest"))
	catalogs = append(catalogs, media.Catalog(media.CatalogFavorites, "Favorites"))

	continueWatching := media.Catalog(media.CatalogContinueWatching, "Continue Watching")
	catalogs = append(catalogs[:1], append([]media.Media{continueWatching}, catalogs[1:]...)...)

	return catalogs, nil
}

// GetGenres returns the genre filter values the library exposes for movies
// and series. Jellyfin only returns names here, so the name doubles as id.
func (c *Client) GetGenres(ctx context.Context) ([]media.Genre, error) {
	params := url.Values{}
	params.Set("IncludeItemTypes", itemTypeMovie+","+itemTypeSeries)
	// Filters without a user scope are an order of magnitude slower.
	params.Set("UserId", c.userID)

	var resp queryFilters
	if err := c.get(ctx, "/Items/Filters", params, &resp); err != nil {
		return nil, err
	}

	genres := make([]media.Genre, 0, len(resp.Genres))
	for _, name := range resp.Genres {
		genres = append(genres, media.Genre{ID: name, Name: name})
	}
	return genres, nil
}

// GetMediaDetails resolves a single item by id. An id unknown to the
// backend returns (nil, nil): not found is a displayable state, not a
// failure.
func (c *Client) GetMediaDetails(ctx context.Context, id string) (*media.Media, error) {
	params := url.Values{}
	params.Set("Ids", id)
	params.Set("Fields", itemFields)
	params.Set("UserId", c.userID)

	var resp itemsResponse
	if err := c.get(ctx, "/Items", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	m, ok := toMedia(resp.Items[0])
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// NextUp returns the next unwatched episode for a series, or an empty list
// when the series has none.
func (c *Client) NextUp(ctx context.Context, series *media.Media) ([]media.Media, error) {
	params := url.Values{}
	params.Set("SeriesId", series.ID)
	params.Set("UserId", c.userID)
	params.Set("Limit", "1")
	params.Set("Fields", itemFields)

	var resp itemsResponse
	if err := c.get(ctx, "/Shows/NextUp", params, &resp); err != nil {
		return nil, err
	}
	return toMediaList(resp.Items), nil
}
