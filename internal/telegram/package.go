package telegram

//
// package.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/bot"
	"gitlab.com/kabes/go-integwatch/internal/watcher"
)

// Package provide telegram client as watcher.Sender and bot.Replier.
//
//nolint:gochecknoglobals
var Package = do.Package(
	do.Lazy(NewClientI),
	do.Lazy(func(i do.Injector) (watcher.Sender, error) {
		return do.MustInvoke[*Client](i), nil
	}),
	do.Lazy(func(i do.Injector) (bot.Replier, error) {
		return do.MustInvoke[*Client](i), nil
	}),
	do.Lazy(NewUpdatesI),
)
