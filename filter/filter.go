// Package filter compiles expr expressions for selecting media items
// client-side, on top of whatever narrowing the backend already did.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/remuxapp/remux/media"
)

// Filter is a compiled filter expression.
type Filter struct {
	program *vm.Program
	expr    string
}

// Compile compiles a filter expression.
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(environment(media.Media{})),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	return &Filter{
		program: program,
		expr:    expression,
	}, nil
}

// Evaluate reports whether item matches the filter. Expressions that
// error or produce a non-boolean result do not match.
func (f *Filter) Evaluate(item media.Media) bool {
	result, err := expr.Run(f.program, environment(item))
	if err != nil {
		return false
	}

	boolResult, ok := result.(bool)
	return ok && boolResult
}

// String returns the original expression.
func (f *Filter) String() string {
	return f.expr
}

// Apply returns the items matching the filter, preserving order.
func (f *Filter) Apply(items []media.Media) []media.Media {
	matched := make([]media.Media, 0, len(items))
	for _, item := range items {
		if f.Evaluate(item) {
			matched = append(matched, item)
		}
	}
	return matched
}

func environment(item media.Media) map[string]interface{} {
	watched := false
	favorite := false
	playCount := 0
	if item.UserData != nil {
		watched = item.UserData.Watched
		favorite = item.UserData.Favorite
		playCount = item.UserData.PlayCount
	}
	progress, _ := item.Progress()

	return map[string]interface{}{
		"Item": item,

		// Direct properties for convenience
		"Title":          item.Title,
		"Type":           string(item.Type),
		"Description":    item.Description,
		"Genres":         item.Genres,
		"RuntimeSeconds": item.RuntimeSeconds,
		"OfficialRating": item.OfficialRating,
		"Watched":        watched,
		"Favorite":       favorite,
		"PlayCount":      playCount,
		"Progress":       progress,

		// Genre helpers
		"hasGenre": func(name string) bool {
			for _, g := range item.Genres {
				if strings.EqualFold(g, name) {
					return true
				}
			}
			return false
		},

		// Rating helpers
		"hasRating": func(source string) bool {
			for _, r := range item.Ratings {
				if strings.EqualFold(string(r.Source), source) {
					return true
				}
			}
			return false
		},
		"rating": func(source string) int {
			for _, r := range item.Ratings {
				if strings.EqualFold(string(r.Source), source) {
					return r.Score
				}
			}
			return 0
		},

		// Date helpers
		"released": func() time.Time {
			if item.ReleaseDate == nil {
				return time.Time{}
			}
			return *item.ReleaseDate
		},
		"releasedAfter": func(year int) bool {
			return item.ReleaseDate != nil && item.ReleaseDate.Year() > year
		},
		"releasedBefore": func(year int) bool {
			return item.ReleaseDate != nil && item.ReleaseDate.Year() < year
		},
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		"now": time.Now,

		// String helpers. The case-insensitive substring helper is named
		// containsText because expr reserves contains as a binary operator.
		"containsText": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}
