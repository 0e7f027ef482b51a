package main

import (
	"os"

	"github.com/codegangsta/cli"
	"github.com/joho/godotenv"
)

const (
	// AppName is the name of the application
	AppName = "banktransferctl"
	// AppVersion is the version of the application
	AppVersion = "0.1"
	// AppDescription describes what this application does
	AppDescription = "banktransferd c&c and utilities"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = AppName
	app.Version = AppVersion
	app.Usage = AppDescription

	app.Commands = []cli.Command{
		configCommand,
		payoutCommand,
		txnIDCommand,
		transactionCommand,
	}

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "config file name",
			EnvVar: "BANKTRANSFERDCFG",
		},
	}
	app.Before = func(c *cli.Context) error {
		// a missing .env file is fine
		godotenv.Load()
		return nil
	}
	return app
}

func main() {
	newApp().Run(os.Args)
}
