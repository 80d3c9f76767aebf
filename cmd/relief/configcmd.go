package main

import (
	"fmt"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "Print the resolved configuration with secrets masked",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		masked := *cfg
		for _, secret := range []*string{
			&masked.DatabaseURL,
			&masked.CookieHashKey,
			&masked.CookieBlockKey,
			&masked.StripeSecretKey,
		} {
			if *secret != "" {
				*secret = "********"
			}
		}

		printer := pp.New()
		printer.SetColoringEnabled(false)
		printer.Println(masked)

		return nil
	},
}
