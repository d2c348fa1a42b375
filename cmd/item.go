package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remuxapp/remux/media"
)

// detailsCmd represents the details command
var detailsCmd = &cobra.Command{
	Use:   "details <id>",
	Short: "Show full details for one item",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetails,
}

func runDetails(cmd *cobra.Command, args []string) error {
	item, err := service.GetMediaDetails(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if item == nil {
		fmt.Printf("No item found with id %s.\n", args[0])
		return nil
	}

	fmt.Printf("%s [%s]\n", item.Title, item.Type)
	if item.ReleaseDate != nil {
		fmt.Printf("Released: %s\n", item.ReleaseDate.Format("2006-01-02"))
	}
	if runtime := item.FormattedRuntime(); runtime != "" {
		fmt.Printf("Runtime: %s\n", runtime)
	}
	if item.OfficialRating != "" {
		fmt.Printf("Rated: %s\n", item.OfficialRating)
	}
	if len(item.Genres) > 0 {
		fmt.Printf("Genres: %s\n", strings.Join(item.Genres, ", "))
	}
	for _, r := range item.Ratings {
		fmt.Printf("%s: %d\n", r.Source, r.Score)
	}
	if item.UserData != nil {
		fmt.Printf("Watched: %t  Favorite: %t", item.UserData.Watched, item.UserData.Favorite)
		if p, ok := item.Progress(); ok {
			fmt.Printf("  Progress: %d%%", p)
		}
		fmt.Println()
	}
	if item.Description != "" {
		fmt.Printf("\n%s\n", item.Description)
	}
	if len(item.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range item.Sources {
			fmt.Printf("• %s (%s, %d streams)\n", src.Name, src.ID, len(src.Streams))
		}
	}
	if poster, ok := instance.ImageURL(item, media.ImagePoster); ok {
		fmt.Printf("\nPoster: %s\n", poster)
	}

	return nil
}

// nextupCmd represents the nextup command
var nextupCmd = &cobra.Command{
	Use:   "nextup <series-id>",
	Short: "Show the next unwatched episode of a series",
	Args:  cobra.ExactArgs(1),
	RunE:  runNextUp,
}

func runNextUp(cmd *cobra.Command, args []string) error {
	series, err := requireItem(cmd, args[0])
	if err != nil {
		return err
	}

	episodes, err := instance.NextUp(cmd.Context(), series)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		fmt.Println("Nothing up next.")
		return nil
	}

	for _, ep := range episodes {
		fmt.Printf("• %s", ep.Title)
		if ep.IndexNumber > 0 {
			fmt.Printf(" (episode %d)", ep.IndexNumber)
		}
		fmt.Println()
	}

	return nil
}

// watchedCmd represents the watched command
var watchedCmd = &cobra.Command{
	Use:   "watched <id>",
	Short: "Mark an item watched or unwatched",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatched,
}

var unsetFlag bool

func init() {
	watchedCmd.Flags().BoolVar(&unsetFlag, "unset", false, "clear the flag instead of setting it")
	favoriteCmd.Flags().BoolVar(&unsetFlag, "unset", false, "clear the flag instead of setting it")
}

func runWatched(cmd *cobra.Command, args []string) error {
	item, err := requireItem(cmd, args[0])
	if err != nil {
		return err
	}

	if err := service.SetWatched(cmd.Context(), !unsetFlag, item); err != nil {
		return err
	}

	if unsetFlag {
		fmt.Printf("Marked %q unwatched.\n", item.Title)
	} else {
		fmt.Printf("Marked %q watched.\n", item.Title)
	}
	return nil
}

// favoriteCmd represents the favorite command
var favoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Mark an item as a favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavorite,
}

func runFavorite(cmd *cobra.Command, args []string) error {
	item, err := requireItem(cmd, args[0])
	if err != nil {
		return err
	}

	if err := service.SetFavorite(cmd.Context(), !unsetFlag, item); err != nil {
		return err
	}

	if unsetFlag {
		fmt.Printf("Removed %q from favorites.\n", item.Title)
	} else {
		fmt.Printf("Added %q to favorites.\n", item.Title)
	}
	return nil
}

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Resolve a playable stream URL for an item",
	Long: `Resolve a stream URL for the item, negotiating direct play or
transcoding against the server using the configured playback capabilities.`,
	RunE: runPlay,
	Args: cobra.ExactArgs(1),
}

var sourceFlag string

func init() {
	playCmd.Flags().StringVarP(&sourceFlag, "source", "s", "", "media source id (default is the first source)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	item, err := requireItem(cmd, args[0])
	if err != nil {
		return err
	}

	var source *media.MediaSource
	for i := range item.Sources {
		if sourceFlag == "" || item.Sources[i].ID == sourceFlag {
			source = &item.Sources[i]
			break
		}
	}
	if source == nil && sourceFlag != "" {
		return fmt.Errorf("item %q has no source %q", item.Title, sourceFlag)
	}

	url, err := instance.GetStreamURL(cmd.Context(), item, source, cfg.Capabilities)
	if err != nil {
		return err
	}

	fmt.Println(url)
	return nil
}

// requireItem fetches details for id and errors when the item does not
// exist.
func requireItem(cmd *cobra.Command, id string) (*media.Media, error) {
	item, err := service.GetMediaDetails(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("no item found with id %s", id)
	}
	return item, nil
}
