package cli

//
// do.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/config"
	"gitlab.com/kabes/go-integwatch/internal/infra"
	"gitlab.com/kabes/go-integwatch/internal/service"
)

func createInjector(ctx context.Context, debugFlags config.DebugFlags) *do.RootScope {
	injector := do.New(
		infra.Package,
		service.Package,
	)

	if debugFlags.HasFlag(config.DebugDo) {
		enableDoDebug(ctx, injector)
	}

	return injector
}

// enableDoDebug log services registered in scope and its dependencies.
func enableDoDebug(ctx context.Context, injector do.Injector) {
	logger := log.Ctx(ctx)
	logger.Debug().Msgf("Do: available services: %v", injector.ListProvidedServices())

	explanation := do.ExplainInjector(injector)
	logger.Debug().Msgf("Do: injector:\n%s", explanation.String())
}

func shutdownInjector(ctx context.Context, injector *do.RootScope) {
	logger := log.Ctx(ctx)

	report := injector.ShutdownWithContext(ctx)
	if report != nil && !report.Succeed {
		logger.Error().Err(report).Msgf("Do: shutdown services failed: %s", report)

		return
	}

	logger.Debug().Msg("Do: services stopped")
}
