package main

import (
	"fmt"

	"relief/internal/seed"

	"github.com/urfave/cli/v2"
)

var seedEntryCommand = &cli.Command{
	Name:      "seed-entry",
	Usage:     "Print seed file entries with fresh ids for new product types or centers",
	ArgsUsage: "NAME...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "kind",
			Aliases: []string{"k"},
			Usage:   "Seeded table: product-type or center",
			Value:   string(seed.KindProductType),
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return cli.Exit("at least one NAME is required", 1)
		}

		entries, err := seed.Entries(seed.Kind(c.String("kind")), c.Args().Slice())
		if err != nil {
			return err
		}

		for _, line := range entries {
			fmt.Println(line)
		}
		return nil
	},
}
