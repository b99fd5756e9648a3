package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/melkeydev/mcp-odata/config"
	"github.com/melkeydev/mcp-odata/databases"
	"github.com/melkeydev/mcp-odata/odata"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var flagConfig string

var rootCmd = &cobra.Command{
	Use:     "mcp-odata",
	Short:   "OData read access to a SQL datastore",
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "config.yaml", "path to config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stdioCmd)
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// app is what every subcommand needs once the config is loaded.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   databases.Datastore
	service *odata.Service
}

func setup() (*app, error) {
	cfg, err := config.LoadConfig(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	connStr, err := cfg.Database.GetConnectionString()
	if err != nil {
		return nil, fmt.Errorf("connection string error: %w", err)
	}

	store, err := databases.NewConnector(cfg.Database.DBType, connStr, databases.Options{
		ResourceTable: cfg.Database.ResourceTable,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	base := odata.NewBaseURL(cfg.Server.ServiceRoot)
	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		service: odata.NewService(store, base, logger),
	}, nil
}
