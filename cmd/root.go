package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/remuxapp/remux/config"
	"github.com/remuxapp/remux/jellyfin"
	"github.com/remuxapp/remux/query"
	"github.com/remuxapp/remux/server"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	instance   *server.Instance
	service    *query.Service
	appVersion = "dev"

	// Command flags
	filterExpr  string
	genreFlag   string
	catalogFlag string
	typeFlag    string
	limitFlag   int
	allPages    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "remux",
	Short: "A client for browsing and streaming from media servers",
	Long: `remux is a CLI client for Jellyfin servers and Stremio addons.
It browses catalogs, searches and filters libraries, tracks watch state,
and negotiates playable stream URLs against the server.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion records the build metadata shown by --version and sent to
// the server as the device version.
func SetVersion(version, buildTime string) {
	appVersion = version
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(catalogsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(nextupCmd)
	rootCmd.AddCommand(watchedCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(playCmd)
}

// initializeApp initializes the configuration, the server connection and
// the query layer
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	device := jellyfin.Device{
		Name:    cfg.Device.Name,
		ID:      cfg.Device.ID,
		Version: cfg.Device.Version,
	}
	if device.Version == "" {
		device.Version = appVersion
	}

	instance, err = server.NewInstance(cfg.Server, device, logger)
	if err != nil {
		return fmt.Errorf("failed to create server client: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Client.TimeoutSeconds)*time.Second)
	defer cancel()

	if err := instance.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", cfg.Server.Host, err)
	}

	service = query.NewService(instance, logger,
		query.WithTTL(time.Duration(cfg.Cache.TTLSeconds)*time.Second))

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Exchange the configured credentials for an access token",
	Long: `Authenticate against the configured server and print the issued
access token and user id. Store them as server.token and server.user_id in
the config file so the password can be removed.`,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	// The session was already established during app initialization.
	stored := instance.IntoConfig()

	fmt.Printf("Logged in to %s server at %s.\n", instance.Kind(), cfg.Server.Host)
	if stored.Token == "" {
		fmt.Println("This backend does not issue tokens; nothing to store.")
		return nil
	}

	fmt.Println("\nAdd to your config file and drop server.password:")
	fmt.Printf("server:\n  token: %s\n  user_id: %s\n", stored.Token, stored.UserID)
	return nil
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to the media server",
	Long:  `Test the connection to your configured server and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to %s server at %s...\n", instance.Kind(), cfg.Server.Host)

	// Connection is already established during app initialization
	fmt.Println("✓ Connection successful!")

	ctx := cmd.Context()
	catalogs, err := service.GetCatalogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get catalogs: %w", err)
	}

	genres, err := service.GetGenres(ctx)
	if err != nil {
		return fmt.Errorf("failed to get genres: %w", err)
	}

	fmt.Printf("\nServer Statistics:\n")
	fmt.Printf("- Catalogs: %d\n", len(catalogs))
	fmt.Printf("- Genres: %d\n", len(genres))
	if userID := instance.UserID(); userID != "" {
		fmt.Printf("- User ID: %s\n", userID)
	}

	return nil
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, bool, error) {
	// Priority: command line filter > named filter from config
	if filterExpr == "" {
		return "", false, nil
	}

	if named, ok := cfg.Filter[filterExpr]; ok {
		return named, true, nil
	}

	return filterExpr, true, nil
}
