package cli

//
// subscribers.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/model"
	"gitlab.com/kabes/go-integwatch/internal/service"
)

func newListSubscribersCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list subscribers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "level",
				Usage:   "show only subscribers notified about level (A2, B1, B2, C1 or 'any')",
				Aliases: []string{"l"},
				Config:  cli.StringConfig{TrimSpace: true},
			},
		},
		Action: wrap(listSubscribersCmd),
	}
}

//nolint:forbidigo
func listSubscribersCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	subsSrv := do.MustInvoke[*service.SubscribersSrv](injector)

	var level *model.Level

	if clicmd.IsSet("level") {
		l := parseLevelArg(clicmd.String("level"))
		level = &l
	}

	subscribers, err := subsSrv.List(ctx, level)
	if err != nil {
		return aerr.Wrapf(err, "list subscribers error")
	}

	fmt.Printf("%-15s | %-6s | %s\n", "User ID", "Level", "Last active")
	fmt.Println("------------------------------------------------------")

	for _, s := range subscribers {
		lastActive := ""
		if !s.LastActive.IsZero() {
			lastActive = s.LastActive.Local().Format("2006-01-02 15:04:05")
		}

		fmt.Printf("%-15d | %-6s | %s\n", s.UserID, levelLabel(s.Level), lastActive)
	}

	return nil
}

// ---------------------------------------------------------------------

func newDeleteSubscriberCmd() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "delete subscriber",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id", Required: true, Usage: "telegram user id", Aliases: []string{"i"}},
		},
		Action: wrap(deleteSubscriberCmd),
	}
}

func deleteSubscriberCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	userID := clicmd.Int64("id")
	subsSrv := do.MustInvoke[*service.SubscribersSrv](injector)

	if err := subsSrv.Unsubscribe(ctx, userID); err != nil {
		return aerr.Wrapf(err, "delete subscriber error")
	}

	//nolint:forbidigo
	fmt.Printf("Subscriber %d deleted\n", userID)

	return nil
}

// ---------------------------------------------------------------------

func newSetLevelCmd() *cli.Command {
	return &cli.Command{
		Name:  "set-level",
		Usage: "change level subscriber is notified about",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id", Required: true, Usage: "telegram user id", Aliases: []string{"i"}},
			&cli.StringFlag{
				Name:     "level",
				Required: true,
				Usage:    "level (A2, B1, B2, C1 or 'any')",
				Aliases:  []string{"l"},
				Config:   cli.StringConfig{TrimSpace: true},
			},
		},
		Action: wrap(setLevelCmd),
	}
}

func setLevelCmd(ctx context.Context, clicmd *cli.Command, injector do.Injector) error {
	subsSrv := do.MustInvoke[*service.SubscribersSrv](injector)

	sub, err := subsSrv.SetLevel(ctx, clicmd.Int64("id"), parseLevelArg(clicmd.String("level")))
	if err != nil {
		return aerr.Wrapf(err, "set level error")
	}

	//nolint:forbidigo
	fmt.Printf("Subscriber %d level: %s\n", sub.UserID, levelLabel(sub.Level))

	return nil
}

// ---------------------------------------------------------------------

func parseLevelArg(level string) model.Level {
	switch l := strings.ToUpper(strings.TrimSpace(level)); l {
	case "", "ANY", "ALL":
		return model.LevelAny
	default:
		return model.Level(l)
	}
}

func levelLabel(level model.Level) string {
	if level.IsAny() {
		return "any"
	}

	return level.String()
}
