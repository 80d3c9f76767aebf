package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "relief",
		Usage: "Relief supply request and distribution tracking API",
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
			exportInventoryCommand,
			configCommand,
			seedEntryCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
