package cli

//
// parse.go
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
	"gitlab.com/kabes/go-integwatch/internal/model"
	"gitlab.com/kabes/go-integwatch/internal/watcher"
)

func newParseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "parse saved search result page and print openings per level",
		ArgsUsage: "FILE",
		Action:    wrapNoDB(parseCmd),
	}
}

//nolint:forbidigo
func parseCmd(_ context.Context, clicmd *cli.Command) error {
	filename := clicmd.Args().First()
	if filename == "" {
		return aerr.ErrValidation.WithUserMsg("missing file name")
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return aerr.Wrapf(err, "read file failed").WithMeta("filename", filename)
	}

	avail, err := watcher.Parse(watcher.RawPage(content))
	if err != nil {
		return aerr.Wrapf(err, "parse page failed").WithUserMsg("%s", watcher.AlertText(err))
	}

	if avail.Total() == 0 {
		fmt.Println("No openings")

		return nil
	}

	for _, level := range avail.Levels() {
		fmt.Printf("%s (%d):\n%s\n\n", level, len(avail.Get(level)), model.Lines(avail.Get(level)))
	}

	return nil
}
