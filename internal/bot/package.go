package bot

//
// package.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import "github.com/samber/do/v2"

// Package require Replier, *config.BotConf and watcher and service packages.
//
//nolint:gochecknoglobals
var Package = do.Package(
	do.Lazy(NewHandlerI),
)
