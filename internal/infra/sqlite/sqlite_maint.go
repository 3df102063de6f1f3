package sqlite

//
// sqlite_maint.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"embed"

	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/db"
)

//go:embed "migrations/*.sql"
var embedMigrations embed.FS

func (Repository) Maintenance(ctx context.Context) error {
	logger := log.Ctx(ctx)
	dbi := db.MustCtx(ctx)

	for idx, sql := range maintScripts {
		logger.Debug().Msgf("sqlite.Repository: run maintenance script[%d]: %q", idx, sql)

		if _, err := dbi.ExecContext(ctx, sql); err != nil {
			return aerr.ApplyFor(aerr.ErrDatabase, err, "execute maintenance script failed").
				WithMeta("sql", sql)
		}
	}

	var numSubscribers int
	if err := dbi.GetContext(ctx, &numSubscribers, "SELECT count(*) FROM subscribers"); err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "execute maintenance - count subscribers failed")
	}

	logger.Info().Msgf("sqlite.Repository: database maintenance finished; subscribers: %d", numSubscribers)

	return nil
}

//------------------------------------------------------------------------------

//nolint:gochecknoglobals
var maintScripts = []string{
	`VACUUM;`,
	`ANALYZE;`,
	`PRAGMA optimize;`,
}
