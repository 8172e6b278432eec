package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Packmart"
	app.Usage = ""
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path of the configuration file",
			Value: "config.toml",
		},
	}
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{},
			Category:    "Api",
			Description: `Used for start service api, the main service included all apis.`,
		},
		{
			Action:      server.startReconciler,
			Name:        "reconciler",
			Usage:       "Start the mint reconciler",
			Flags:       []cli.Flag{},
			Category:    "Worker",
			Description: `Used to start the worker that re-queries the minting backend for stale submitted mints.`,
		},
		{
			Action:      server.startMinting,
			Name:        "minting",
			Usage:       "Start the built-in minting service",
			Flags:       []cli.Flag{},
			Category:    "Minting",
			Description: `Used to run a local minting backend over rpc for development.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database schema",
			Flags:       []cli.Flag{},
			Category:    "Database",
			Description: `Used to create or update the database tables.`,
		},
	}

	s.app = app
}
