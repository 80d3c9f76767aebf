package main

import (
	"fmt"

	"relief/internal/db"
	"relief/internal/seed"
	"relief/internal/store"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with reference data",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "inventory",
			Usage: "Also stock every center with random quantities up to this maximum (0 skips)",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := newLogger(cfg)

		ctx := c.Context

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger.Info("Connected to database")

		logger.Info("Seeding product types...")
		if err := seed.SeedProductTypes(ctx, store.NewProductTypeRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed product types: %w", err)
		}

		logger.Info("Seeding distribution centers...")
		if err := seed.SeedCenters(ctx, store.NewCenterRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed distribution centers: %w", err)
		}

		if maxQuantity := c.Int("inventory"); maxQuantity > 0 {
			logger.WithField("max_quantity", maxQuantity).Info("Seeding inventory...")
			if err := seed.SeedFakeInventory(ctx, store.NewInventoryRepository(pool), maxQuantity); err != nil {
				return fmt.Errorf("failed to seed inventory: %w", err)
			}
		}

		logger.Info("Seed data loaded successfully")

		return nil
	},
}
