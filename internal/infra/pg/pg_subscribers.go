package pg

//
// pg_subscribers.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/common"
	"gitlab.com/kabes/go-integwatch/internal/db"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

type subscriberDB struct {
	UserID     int64          `db:"user_id"`
	Level      sql.NullString `db:"level"`
	LastActive int64          `db:"last_active"`
}

func (s *subscriberDB) toModel() model.Subscriber {
	sub := model.Subscriber{
		UserID: s.UserID,
		Level:  model.Level(s.Level.String),
	}

	if s.LastActive > 0 {
		sub.LastActive = time.Unix(s.LastActive, 0).UTC()
	}

	return sub
}

func (Repository) GetSubscriber(ctx context.Context, userID int64) (*model.Subscriber, error) {
	log.Ctx(ctx).Debug().Int64(common.LogKeyUserID, userID).Msg("pg.Repository: get subscriber")

	dbctx := db.MustCtx(ctx)
	sub := subscriberDB{}

	err := dbctx.GetContext(ctx, &sub,
		"SELECT user_id, level, last_active FROM subscribers WHERE user_id=$1", userID)

	switch {
	case err == nil:
		res := sub.toModel()

		return &res, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrNoData
	default:
		return nil, aerr.ApplyFor(aerr.ErrDatabase, err, "select subscriber failed")
	}
}

func (Repository) SaveSubscriber(ctx context.Context, sub *model.Subscriber) error {
	log.Ctx(ctx).Debug().Object("subscriber", sub).Msg("pg.Repository: save subscriber")

	dbctx := db.MustCtx(ctx)
	level := sql.NullString{String: string(sub.Level), Valid: !sub.Level.IsAny()}

	_, err := dbctx.ExecContext(ctx, `
		INSERT INTO subscribers (user_id, level, last_active)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET level=EXCLUDED.level, last_active=EXCLUDED.last_active`,
		sub.UserID, level, sub.LastActive.Unix())
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "save subscriber failed").WithMeta("user_id", sub.UserID)
	}

	return nil
}

func (Repository) DeleteSubscriber(ctx context.Context, userID int64) error {
	log.Ctx(ctx).Debug().Int64(common.LogKeyUserID, userID).Msg("pg.Repository: delete subscriber")

	dbctx := db.MustCtx(ctx)

	res, err := dbctx.ExecContext(ctx, "DELETE FROM subscribers WHERE user_id=$1", userID)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "delete subscriber failed").WithMeta("user_id", userID)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNoData
	}

	return nil
}

func (Repository) ListSubscribers(ctx context.Context, level *model.Level) ([]model.Subscriber, error) {
	dbctx := db.MustCtx(ctx)

	var (
		res []subscriberDB
		err error
	)

	if level == nil {
		err = dbctx.SelectContext(ctx, &res,
			"SELECT user_id, level, last_active FROM subscribers ORDER BY user_id")
	} else {
		err = dbctx.SelectContext(ctx, &res,
			"SELECT user_id, level, last_active FROM subscribers WHERE level=$1 OR level IS NULL ORDER BY user_id",
			string(*level))
	}

	if err != nil {
		return nil, aerr.ApplyFor(aerr.ErrDatabase, err, "select subscribers failed")
	}

	subs := make([]model.Subscriber, 0, len(res))
	for _, s := range res {
		subs = append(subs, s.toModel())
	}

	return subs, nil
}
