package cli

//
// check.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/watcher"
)

func newCheckCmd() *cli.Command {
	return &cli.Command{
		Name:   "check",
		Usage:  "run health check against the site and print report",
		Flags:  watcherFlags(),
		Action: wrapNoDB(checkCmd),
	}
}

//nolint:forbidigo
func checkCmd(ctx context.Context, clicmd *cli.Command) error {
	conf, err := watcherConfFromCmd(clicmd)
	if err != nil {
		return err
	}

	session := watcher.NewSession(conf.Cookie)
	fetcher := watcher.NewFetcher(conf, session)
	poller := watcher.NewPoller(conf, session, watcher.NewState(), fetcher, nil)

	report, err := poller.HealthCheck(ctx)
	if err != nil {
		fmt.Println(watcher.AlertText(err))

		return aerr.Wrapf(err, "health check failed").WithUserMsg("health check failed: %s", watcher.FaultKind(err))
	}

	fmt.Println(report)

	return nil
}
