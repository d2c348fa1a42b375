package media

import (
	"fmt"
	"strings"
)

// DefaultLimit is the page size used when a query does not set one.
const DefaultLimit = 25

// Query describes one canonical media request. Two field-wise equal
// queries produce identical Key() strings, which the query cache relies on.
type Query struct {
	Limit  int
	Offset int
	Types  []MediaType

	Search string

	// Parent scopes the query to a container item, e.g. a series when
	// listing seasons or a season when listing episodes.
	Parent *Media

	// ForCatalog drives backend-specific filter/sort selection. The
	// synthetic catalog ids select filters, any other id is treated as a
	// parent scope and then takes precedence over Parent.
	ForCatalog *Media

	Genres []Genre
}

// NewQuery returns a query with the application defaults: limit 25,
// offset 0, movies and series.
func NewQuery() Query {
	return Query{
		Limit: DefaultLimit,
		Types: []MediaType{TypeMovie, TypeSeries},
	}
}

// WithPage returns a copy of the query at the given page window.
func (q Query) WithPage(limit, offset int) Query {
	q.Limit = limit
	q.Offset = offset
	return q
}

// Key returns a deterministic serialization of the query, suitable as a
// cache key component. Only identity-bearing fields participate: two
// queries that would hit the backend identically serialize identically.
func (q *Query) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "limit=%d;offset=%d;types=", q.Limit, q.Offset)
	for i, t := range q.Types {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(t))
	}
	// Variable-length fields are quoted so user-supplied strings cannot
	// smuggle field delimiters into the key.
	fmt.Fprintf(&b, ";search=%q", q.Search)
	if q.Parent != nil {
		fmt.Fprintf(&b, ";parent=%q", q.Parent.ID)
	}
	if q.ForCatalog != nil {
		fmt.Fprintf(&b, ";catalog=%q", q.ForCatalog.ID)
	}
	if len(q.Genres) > 0 {
		b.WriteString(";genres=")
		for i, g := range q.Genres {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%q", g.Name)
		}
	}
	return b.String()
}
