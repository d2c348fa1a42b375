package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remuxapp/remux/filter"
	"github.com/remuxapp/remux/media"
	"github.com/remuxapp/remux/pagination"
)

// catalogsCmd represents the catalogs command
var catalogsCmd = &cobra.Command{
	Use:   "catalogs",
	Short: "List the server's catalogs",
	Long:  `List all catalogs the server exposes, including the built-in latest, continue watching and favorites rows.`,
	RunE:  runCatalogs,
}

func runCatalogs(cmd *cobra.Command, args []string) error {
	catalogs, err := service.GetCatalogs(cmd.Context())
	if err != nil {
		return err
	}

	if len(catalogs) == 0 {
		fmt.Println("No catalogs found.")
		return nil
	}

	fmt.Printf("Found %d catalogs:\n", len(catalogs))
	for _, c := range catalogs {
		fmt.Printf("• %s (%s)\n", c.Title, c.ID)
	}

	return nil
}

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse media items page by page",
	Long: `Browse the library, optionally scoped to a catalog, a genre or a
client-side filter expression. Pages are loaded incrementally; pass
--all to keep loading until the collection is exhausted.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVarP(&catalogFlag, "catalog", "c", "", "catalog id to browse")
	browseCmd.Flags().StringVarP(&genreFlag, "genre", "g", "", "restrict results to a genre")
	browseCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or named filter from config")
	browseCmd.Flags().StringVarP(&typeFlag, "type", "t", "", "restrict results to a media type (movie or series)")
	browseCmd.Flags().IntVarP(&limitFlag, "limit", "l", 0, "page size (default from config)")
	browseCmd.Flags().BoolVar(&allPages, "all", false, "load every page")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	q := media.NewQuery()
	if catalogFlag != "" {
		catalog := media.Catalog(catalogFlag, catalogFlag)
		q.ForCatalog = &catalog
	}
	if genreFlag != "" {
		q.Genres = []media.Genre{{ID: genreFlag, Name: genreFlag}}
	}
	if typeFlag != "" {
		mediaType, err := parseMediaType(typeFlag)
		if err != nil {
			return err
		}
		q.Types = []media.MediaType{mediaType}
	}

	return browseQuery(cmd.Context(), q)
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the library",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or named filter from config")
	searchCmd.Flags().StringVarP(&typeFlag, "type", "t", "", "restrict results to a media type (movie or series)")
	searchCmd.Flags().IntVarP(&limitFlag, "limit", "l", 0, "page size (default from config)")
	searchCmd.Flags().BoolVar(&allPages, "all", false, "load every page")
}

func runSearch(cmd *cobra.Command, args []string) error {
	q := media.NewQuery()
	q.Search = strings.Join(args, " ")
	if typeFlag != "" {
		mediaType, err := parseMediaType(typeFlag)
		if err != nil {
			return err
		}
		q.Types = []media.MediaType{mediaType}
	}

	return browseQuery(cmd.Context(), q)
}

// browseQuery pages through the query results and prints them, applying
// the optional client-side filter to each page.
func browseQuery(ctx context.Context, q media.Query) error {
	var itemFilter *filter.Filter
	expression, hasFilter, err := getFilterExpression()
	if err != nil {
		return err
	}
	if hasFilter {
		itemFilter, err = filter.Compile(expression)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	pageSize := cfg.Client.Limit
	if limitFlag > 0 {
		pageSize = limitFlag
	}

	paginator := pagination.New(pageSize, func(ctx context.Context, limit, offset int) ([]media.Media, error) {
		page := q.WithPage(limit, offset)
		return service.GetMedia(ctx, &page)
	})

	shown := 0
	for {
		if err := paginator.LoadMore(ctx); err != nil {
			return err
		}

		items := paginator.Items()[shown:]
		shown = paginator.Len()

		if itemFilter != nil {
			items = itemFilter.Apply(items)
		}
		for _, item := range items {
			printItem(item)
		}

		if !allPages || !paginator.HasMore() {
			break
		}
	}

	if shown == 0 {
		fmt.Println("No items found.")
		return nil
	}
	if paginator.HasMore() {
		fmt.Printf("\n%d items shown, more available.\n", shown)
	} else {
		fmt.Printf("\n%d items total.\n", shown)
	}

	return nil
}

func printItem(item media.Media) {
	fmt.Printf("• %s", item.Title)
	if item.ReleaseDate != nil {
		fmt.Printf(" (%d)", item.ReleaseDate.Year())
	}
	fmt.Printf(" [%s]", item.Type)
	if item.UserData != nil {
		if item.UserData.Watched {
			fmt.Printf(" [WATCHED]")
		}
		if item.UserData.Favorite {
			fmt.Printf(" ♥")
		}
	}
	fmt.Println()
	if runtime := item.FormattedRuntime(); runtime != "" {
		fmt.Printf("  Runtime: %s\n", runtime)
	}
	if len(item.Genres) > 0 {
		fmt.Printf("  Genres: %s\n", strings.Join(item.Genres, ", "))
	}
}

func parseMediaType(value string) (media.MediaType, error) {
	switch strings.ToLower(value) {
	case "movie":
		return media.TypeMovie, nil
	case "series":
		return media.TypeSeries, nil
	default:
		return "", fmt.Errorf("unknown media type %q, expected movie or series", value)
	}
}

// genresCmd represents the genres command
var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the server's genres",
	RunE:  runGenres,
}

func runGenres(cmd *cobra.Command, args []string) error {
	genres, err := service.GetGenres(cmd.Context())
	if err != nil {
		return err
	}

	if len(genres) == 0 {
		fmt.Println("No genres found.")
		return nil
	}

	for _, g := range genres {
		fmt.Printf("• %s\n", g.Name)
	}

	return nil
}
