package main

import (
	"os"

	"github.com/andresuchdata/stock-analytics/internal/config"
	"github.com/andresuchdata/stock-analytics/pkg/logger"
	"github.com/urfave/cli/v2"
)

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Usage:   "Snapshot source: db, dir or s3",
			EnvVars: []string{"ANALYTICS_SOURCE"},
			Value:   "db",
		},
		&cli.StringFlag{
			Name:    "dir",
			Usage:   "Directory of monthly snapshot CSVs (source=dir)",
			EnvVars: []string{"ANALYTICS_DATA_DIR"},
		},
		&cli.StringFlag{
			Name:    "prefix",
			Usage:   "Object key prefix of monthly snapshot CSVs (source=s3)",
			EnvVars: []string{"STORAGE_PREFIX"},
		},
		&cli.StringFlag{
			Name:  "from",
			Usage: "First month to include (YYYY-MM)",
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "Last month to include (YYYY-MM)",
		},
		&cli.StringSliceFlag{
			Name:  "month",
			Usage: "Only include these months (repeatable)",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Only include the most recent N months",
		},
	}
}

func main() {
	cfg := config.Load()
	logger.Configure(cfg.Log.Format, cfg.Log.Level)

	app := &cli.App{
		Name:  "analytics",
		Usage: "Compute stock analytics from monthly snapshots",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   cfg.Log.Level,
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "compute",
				Usage: "Compute per-product analytics and write them as JSON or XLSX",
				Flags: append(sourceFlags(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: json or xlsx",
						Value: "json",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output file (defaults to stdout)",
					},
				),
				Action: func(c *cli.Context) error {
					return runCompute(c, cfg)
				},
			},
			{
				Name:  "seed",
				Usage: "Import a directory of monthly snapshot CSVs into the database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db-url",
						Usage:   "Database connection string (defaults to the DB_* settings)",
						EnvVars: []string{"DATABASE_URL"},
					},
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Directory of monthly snapshot CSVs",
						EnvVars:  []string{"SEED_DATA_DIR"},
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					return runSeed(c, cfg)
				},
			},
			{
				Name:  "export",
				Usage: "Compute analytics and upload the XLSX report to object storage",
				Flags: append(sourceFlags(),
					&cli.StringFlag{
						Name:  "key",
						Usage: "Object key of the uploaded report",
					},
				),
				Action: func(c *cli.Context) error {
					return runExport(c, cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("analytics command failed")
	}
}
