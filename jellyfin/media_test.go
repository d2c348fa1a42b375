package jellyfin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remuxapp/remux/media"
)

// newTestClient returns a connected client pointed at a handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "alice", testDevice, zerolog.Nop(), WithToken("tok", "user-1"))
	require.NoError(t, err)
	return client
}

func itemsHandler(t *testing.T, capture *url.Values, items ...baseItem) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = r.URL.Query()
		}
		json.NewEncoder(w).Encode(itemsResponse{Items: items, TotalRecordCount: len(items)})
	}
}

func TestGetMediaQueryParameters(t *testing.T) {
	tests := []struct {
		name  string
		query func() media.Query
		want  map[string]string
	}{
		{
			name:  "defaults",
			query: media.NewQuery,
			want: map[string]string{
				"Recursive":        "true",
				"Limit":            "25",
				"StartIndex":       "0",
				"UserId":           "user-1",
				"IncludeItemTypes": "Movie,Series",
			},
		},
		{
			name: "search with page window",
			query: func() media.Query {
				q := media.NewQuery().WithPage(10, 30)
				q.Search = "alien"
				return q
			},
			want: map[string]string{
				"Limit":      "10",
				"StartIndex": "30",
				"SearchTerm": "alien",
			},
		},
		{
			name: "genres pipe joined",
			query: func() media.Query {
				q := media.NewQuery()
				q.Genres = []media.Genre{{ID: "Action", Name: "Action"}, {ID: "Drama", Name: "Drama"}}
				return q
			},
			want: map[string]string{"Genres": "Action|Drama"},
		},
		{
			name: "favorites catalog selects filter",
			query: func() media.Query {
				q := media.NewQuery()
				catalog := media.Catalog(media.CatalogFavorites, "Favorites")
				q.ForCatalog = &catalog
				return q
			},
			want: map[string]string{"Filters": "IsFavorite"},
		},
		{
			name: "continue watching catalog selects resumable",
			query: func() media.Query {
				q := media.NewQuery()
				catalog := media.Catalog(media.CatalogContinueWatching, "Continue Watching")
				q.ForCatalog = &catalog
				return q
			},
			want: map[string]string{"Filters": "IsResumable"},
		},
		{
			name: "latest catalog sorts by date added",
			query: func() media.Query {
				q := media.NewQuery()
				catalog := media.Catalog(media.CatalogLatest, "Latest")
				q.ForCatalog = &catalog
				return q
			},
			want: map[string]string{
				"SortBy":    "DateCreated",
				"SortOrder": "Descending",
			},
		},
		{
			name: "library catalog becomes parent scope",
			query: func() media.Query {
				q := media.NewQuery()
				catalog := media.Catalog("lib-42", "Anime")
				q.ForCatalog = &catalog
				parent := media.Media{ID: "series-1"}
				q.Parent = &parent
				return q
			},
			want: map[string]string{"ParentId": "lib-42"},
		},
		{
			name: "parent scope without catalog",
			query: func() media.Query {
				q := media.NewQuery()
				parent := media.Media{ID: "series-1"}
				q.Parent = &parent
				return q
			},
			want: map[string]string{"ParentId": "series-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var params url.Values
			client := newTestClient(t, itemsHandler(t, &params))

			q := tt.query()
			_, err := client.GetMedia(context.Background(), &q)
			require.NoError(t, err)

			for key, want := range tt.want {
				assert.Equal(t, want, params.Get(key), "param %s", key)
			}
		})
	}
}

func TestGetMediaSyntheticCatalogIsNotParentScope(t *testing.T) {
	var params url.Values
	client := newTestClient(t, itemsHandler(t, &params))

	q := media.NewQuery()
	catalog := media.Catalog(media.CatalogFavorites, "Favorites")
	q.ForCatalog = &catalog
	parent := media.Media{ID: "series-1"}
	q.Parent = &parent

	_, err := client.GetMedia(context.Background(), &q)
	require.NoError(t, err)

	assert.Equal(t, "IsFavorite", params.Get("Filters"))
	assert.Equal(t, "series-1", params.Get("ParentId"))
}

func TestGetCatalogs(t *testing.T) {
	tests := []struct {
		name      string
		boxSets   []baseItem
		wantOrder []string
	}{
		{
			name: "server collections with synthetic rows",
			boxSets: []baseItem{
				{ID: "box-1", Name: "Marvel", Type: itemTypeBoxSet},
				{ID: "box-2", Name: "Ghibli", Type: itemTypeBoxSet},
			},
			wantOrder: []string{
				"box-1",
				media.CatalogContinueWatching,
				"box-2",
				media.CatalogLatest,
				media.CatalogFavorites,
			},
		},
		{
			name:    "empty server",
			boxSets: nil,
			wantOrder: []string{
				media.CatalogLatest,
				media.CatalogContinueWatching,
				media.CatalogFavorites,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var params url.Values
			client := newTestClient(t, itemsHandler(t, &params, tt.boxSets...))

			catalogs, err := client.GetCatalogs(context.Background())
			require.NoError(t, err)
			assert.Equal(t, itemTypeBoxSet, params.Get("IncludeItemTypes"))

			ids := make([]string, len(catalogs))
			for i, c := range catalogs {
				ids[i] = c.ID
				assert.Equal(t, media.TypeCatalog, c.Type)
			}
			assert.Equal(t, tt.wantOrder, ids)
		})
	}
}

func TestGetGenres(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Items/Filters", r.URL.Path)
		assert.Equal(t, "user-1", r.URL.Query().Get("UserId"))
		json.NewEncoder(w).Encode(queryFilters{Genres: []string{"Action", "Comedy"}})
	})

	genres, err := client.GetGenres(context.Background())
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, media.Genre{ID: "Action", Name: "Action"}, genres[0])
	assert.Equal(t, media.Genre{ID: "Comedy", Name: "Comedy"}, genres[1])
}

func TestGetMediaDetails(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		var params url.Values
		client := newTestClient(t, itemsHandler(t, &params, baseItem{
			ID:           "movie-1",
			Name:         "Alien",
			Type:         itemTypeMovie,
			PremiereDate: "1979-05-25T00:00:00.0000000Z",
			RunTimeTicks: 69_840_000_000,
			UserData:     &userItemData{Played: true, PlayCount: 2},
		}))

		item, err := client.GetMediaDetails(context.Background(), "movie-1")
		require.NoError(t, err)
		require.NotNil(t, item)

		assert.Equal(t, "movie-1", params.Get("Ids"))
		assert.Equal(t, "Alien", item.Title)
		assert.Equal(t, media.TypeMovie, item.Type)
		require.NotNil(t, item.ReleaseDate)
		assert.Equal(t, 1979, item.ReleaseDate.Year())
		assert.Equal(t, int64(6984), item.RuntimeSeconds)
		require.NotNil(t, item.UserData)
		assert.True(t, item.UserData.Watched)
	})

	t.Run("unknown id", func(t *testing.T) {
		client := newTestClient(t, itemsHandler(t, nil))

		item, err := client.GetMediaDetails(context.Background(), "nope")
		require.NoError(t, err)
		assert.Nil(t, item)
	})
}

func TestNextUp(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Shows/NextUp", r.URL.Path)
		assert.Equal(t, "series-1", r.URL.Query().Get("SeriesId"))
		assert.Equal(t, "1", r.URL.Query().Get("Limit"))
		json.NewEncoder(w).Encode(itemsResponse{Items: []baseItem{
			{ID: "ep-5", Name: "The One After", Type: itemTypeEpisode, IndexNumber: 5},
		}})
	})

	series := media.Media{ID: "series-1", Type: media.TypeSeries}
	episodes, err := client.NextUp(context.Background(), &series)
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, "ep-5", episodes[0].ID)
	assert.Equal(t, media.TypeEpisode, episodes[0].Type)
	assert.Equal(t, 5, episodes[0].IndexNumber)
}
