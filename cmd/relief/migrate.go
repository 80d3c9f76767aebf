package main

import (
	"fmt"

	"relief/internal/db"

	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create the database schema",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := newLogger(cfg)

		pool, err := db.Connect(c.Context, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := db.Migrate(c.Context, pool, cfg.DatabaseSchema); err != nil {
			return err
		}

		logger.WithField("schema", cfg.DatabaseSchema).Info("schema migrated")
		return nil
	},
}
