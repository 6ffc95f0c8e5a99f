package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	storeFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "driver",
			Aliases: []string{"d"},
			Usage:   "Listing store driver (memory, postgres, sqlite); overrides STORE_DRIVER",
		},
		&cli.StringFlag{
			Name:  "database-url",
			Usage: "SQL store DSN; overrides DATABASE_URL",
		},
		&cli.StringFlag{
			Name:  "snapshot",
			Usage: "Memory store gob snapshot file; overrides STORE_SNAPSHOT_FILE",
		},
	}

	return &cli.App{
		Name:    "gig_search",
		Usage:   "Free-text search and ranking for marketplace gig listings",
		Version: Version + " (built " + BuildTime + ")",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP search server",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Usage: "Address to listen on; overrides SERVER_HOST",
					},
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on; overrides SERVER_PORT",
					},
					&cli.StringFlag{
						Name:  "seed",
						Usage: "JSON file of listings loaded at startup; overrides STORE_SEED_FILE",
					},
					&cli.StringFlag{
						Name:  "analytics-file",
						Usage: "File analytics events are persisted to; overrides ANALYTICS_FILE",
					},
				}, storeFlags...),
			},
			{
				Name:      "search",
				Usage:     "Run one query against a JSON seed file and print the response",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "seed",
						Aliases:  []string{"s"},
						Usage:    "JSON file of listings to search",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum primary results (clamped to 1..50)",
						Value:   20,
					},
					&cli.StringSliceFlag{
						Name:  "category",
						Usage: "Restrict to category IDs",
					},
					&cli.BoolFlag{
						Name:  "compact",
						Usage: "Print JSON on one line",
					},
				},
			},
			{
				Name:      "import",
				Usage:     "Load a JSON seed file into the configured listing store",
				ArgsUsage: "<seed.json>",
				Action:    importCommand,
				Flags:     storeFlags,
			},
		},
	}
}
