package sqlite

//
// sqlite_subscribers.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/common"
	"gitlab.com/kabes/go-integwatch/internal/db"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

func (Repository) GetSubscriber(ctx context.Context, userID int64) (*model.Subscriber, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Int64(common.LogKeyUserID, userID).Msgf("sqlite.Repository: get subscriber user_id=%d", userID)

	dbctx := db.MustCtx(ctx)
	sub := SubscriberDB{}

	err := dbctx.GetContext(ctx, &sub,
		"SELECT user_id, level, last_active FROM subscribers WHERE user_id=?", userID)

	switch {
	case err == nil:
		return sub.ToModel(), nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrNoData
	default:
		return nil, aerr.ApplyFor(aerr.ErrDatabase, err, "select subscriber failed")
	}
}

func (Repository) SaveSubscriber(ctx context.Context, sub *model.Subscriber) error {
	logger := log.Ctx(ctx)
	dbctx := db.MustCtx(ctx)

	subdb := newSubscriberDB(sub)
	logger.Debug().Object("subscriber", &subdb).Msgf("sqlite.Repository: save subscriber user_id=%d", sub.UserID)

	_, err := dbctx.ExecContext(ctx, `
		INSERT INTO subscribers (user_id, level, last_active)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET level=excluded.level, last_active=excluded.last_active`,
		subdb.UserID, subdb.Level, subdb.LastActive)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "save subscriber failed").WithMeta("user_id", sub.UserID)
	}

	return nil
}

func (Repository) DeleteSubscriber(ctx context.Context, userID int64) error {
	logger := log.Ctx(ctx)
	logger.Debug().Int64(common.LogKeyUserID, userID).Msgf("sqlite.Repository: delete subscriber user_id=%d", userID)

	dbctx := db.MustCtx(ctx)

	res, err := dbctx.ExecContext(ctx, "DELETE FROM subscribers WHERE user_id=?", userID)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "delete subscriber failed").WithMeta("user_id", userID)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNoData
	}

	return nil
}

func (Repository) ListSubscribers(ctx context.Context, level *model.Level) ([]model.Subscriber, error) {
	logger := log.Ctx(ctx)
	dbctx := db.MustCtx(ctx)

	var (
		res []SubscriberDB
		err error
	)

	if level == nil {
		logger.Debug().Msg("sqlite.Repository: list all subscribers")

		err = dbctx.SelectContext(ctx, &res,
			"SELECT user_id, level, last_active FROM subscribers ORDER BY user_id")
	} else {
		logger.Debug().Str(common.LogKeyLevel, string(*level)).
			Msgf("sqlite.Repository: list subscribers level=%q", *level)

		err = dbctx.SelectContext(ctx, &res,
			"SELECT user_id, level, last_active FROM subscribers WHERE level=? OR level IS NULL ORDER BY user_id",
			string(*level))
	}

	if err != nil {
		return nil, aerr.ApplyFor(aerr.ErrDatabase, err, "select subscribers failed")
	}

	subs := make([]model.Subscriber, 0, len(res))
	for _, s := range res {
		subs = append(subs, *s.ToModel())
	}

	return subs, nil
}
