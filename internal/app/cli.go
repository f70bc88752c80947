package app

import (
	"context"
	"fmt"

	"storefront_backend/database"
	"storefront_backend/internal/config"
	"storefront_backend/internal/logger"

	"github.com/urfave/cli/v3"
)

// NewCommand builds the storefront command line. Without a subcommand it serves.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "storefront",
		Usage: "Storefront REST backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
		},
		Action: serveAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serveAction,
			},
			{
				Name:  "migrate",
				Usage: "Create tables or indexes for the configured database",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					store, err := database.Open(ctx, cfg)
					if err != nil {
						return err
					}
					defer store.Close(context.Background())

					if err := database.AutoMigrate(ctx, store); err != nil {
						return err
					}
					logger.Info("Migration complete", "driver", cfg.Database.Driver)
					return nil
				},
			},
			{
				Name:  "seed-admin",
				Usage: "Create the first admin account from ADMIN_EMAIL and ADMIN_PASSWORD",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					store, err := database.Open(ctx, cfg)
					if err != nil {
						return err
					}
					defer store.Close(context.Background())

					return SeedAdmin(ctx, store.Users(), cfg)
				},
			},
		},
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return Run(ctx, cfg)
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfigFrom(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	return cfg, nil
}
