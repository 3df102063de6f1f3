// Package watcher poll Integratsioon self-service site and notify subscribers
// about changes in available language courses.
package watcher

//
// package.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/config"
)

// Package require *config.WatcherConf, *config.BotConf, Sender and SubscriberSource.
//
//nolint:gochecknoglobals
var Package = do.Package(
	do.Lazy(func(i do.Injector) (*Session, error) {
		return NewSession(do.MustInvoke[*config.WatcherConf](i).Cookie), nil
	}),
	do.Lazy(func(_ do.Injector) (*State, error) {
		return NewState(), nil
	}),
	do.Lazy(NewFetcherI),
	do.Lazy(NewNotifierI),
	do.Lazy(NewPollerI),
)
