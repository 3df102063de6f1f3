package cli

//
// main.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/config"
)

const envPrefix = "INTEGWATCH_"

//nolint:forbidigo
func Main() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "print-version",
		Aliases: []string{"V"},
		Usage:   "Print version.",
	}

	cli := &cli.Command{
		Name:    "integwatch",
		Usage:   "watch Integratsioon self-service for language courses and notify Telegram subscribers",
		Version: config.VersionString,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db.driver",
				Value:   config.DriverSqlite,
				Usage:   "Database driver (sqlite3, postgres)",
				Sources: cli.EnvVars(envPrefix + "DB_DRIVER"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:      "db.connstr",
				Value:     "integwatch.sqlite?_fk=1&_journal_mode=WAL&_synchronous=NORMAL",
				Usage:     "Database connection string or sqlite file",
				Aliases:   []string{"D"},
				Sources:   cli.EnvVars(envPrefix + "DB_CONNSTR"),
				Validator: dbConnstrValidator,
				Config:    cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "log.level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(envPrefix + "LOGLEVEL"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{
				Name:    "log.format",
				Value:   "console",
				Usage:   "Log format (console, logfmt, json, journald, syslog)",
				Sources: cli.EnvVars(envPrefix + "LOGFORMAT"),
				Config:  cli.StringConfig{TrimSpace: true},
			},
			&cli.StringFlag{Name: "debug", Usage: "Debug flags", Sources: cli.EnvVars(envPrefix + "DEBUG")},
		},
		Commands: []*cli.Command{
			newServeCmd(),
			newCheckCmd(),
			newParseCmd(),
			databaseSubCmd(),
			subscribersSubCmd(),
			sessionSubCmd(),
		},
	}

	if err := cli.Run(context.Background(), os.Args); err != nil {
		if h := aerr.GetUserMessage(err); h != "" {
			fmt.Printf("Error: %s\n", h)
		} else {
			fmt.Printf("Error: %s\n", err.Error())
		}

		if cli.String("log.level") == "debug" {
			fmt.Printf("Error: %#+v\n", err)
		}

		os.Exit(1)
	}
}

func databaseSubCmd() *cli.Command {
	return &cli.Command{
		Name:  "database",
		Usage: "manage database",
		Commands: []*cli.Command{
			newMigrateCmd(),
			newMaintenanceCmd(),
		},
	}
}

func subscribersSubCmd() *cli.Command {
	return &cli.Command{
		Name:  "subscriber",
		Usage: "manage subscribers",
		Commands: []*cli.Command{
			newListSubscribersCmd(),
			newDeleteSubscriberCmd(),
			newSetLevelCmd(),
		},
	}
}

func sessionSubCmd() *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "manage remote site session",
		Commands: []*cli.Command{
			newSetSessionCmd(),
		},
	}
}

//---------------------------------------------------------------------

func dbConnstrValidator(connstr string) error {
	if connstr == "" {
		return aerr.New("database connection string cannot be empty")
	}

	return nil
}
