package db

//
// db.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/repository"
)

//nolint:gochecknoglobals
var queryDuration *prometheus.HistogramVec

// RegisterMetrics register database stats collector and optional query duration histogram.
func RegisterMetrics(i do.Injector, queryTime bool) {
	database := do.MustInvoke[repository.Database](i)

	if sqldb := database.GetDB(); sqldb != nil {
		prometheus.DefaultRegisterer.MustRegister(collectors.NewDBStatsCollector(sqldb, "main"))
	}

	if queryTime && queryDuration == nil {
		queryDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "database_query_duration_seconds",
				Help:    "Tracks the latencies for database query.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2},
			},
			[]string{"caller"},
		)

		prometheus.DefaultRegisterer.MustRegister(queryDuration)
	}
}

func observeQueryDuration(start time.Time) {
	if queryDuration == nil {
		return
	}

	const skipFrames = 3

	rpc := make([]uintptr, 1)
	if n := runtime.Callers(skipFrames, rpc); n < 1 {
		return
	}

	frame, _ := runtime.CallersFrames(rpc).Next()
	if frame.PC == 0 {
		return
	}

	queryDuration.WithLabelValues(frame.Function).Observe(time.Since(start).Seconds())
}

//------------------------------------------------------------------------------

// InConnection run `fun` with database connection in context.
func InConnection(ctx context.Context, r repository.Database, fun func(context.Context) error) error {
	_, err := InConnectionR(ctx, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fun(ctx)
	})

	return err
}

// InConnectionR run `fun` in database context. Open/close connection. Return `fun` result and error.
func InConnectionR[T any](ctx context.Context, r repository.Database,
	fun func(context.Context) (T, error),
) (T, error) {
	// reuse connection or transaction already in context
	if _, ok := Ctx(ctx); ok {
		return fun(ctx)
	}

	start := time.Now()
	defer observeQueryDuration(start)

	conn, err := r.GetConnection(ctx)
	if err != nil {
		return *new(T), err //nolint:wrapcheck
	}

	defer closeConnection(ctx, r, conn)

	return fun(WithCtx(ctx, conn))
}

// InTransaction run `fun` in db transactions.
func InTransaction(ctx context.Context, r repository.Database, fun func(context.Context) error) error {
	_, err := InTransactionR(ctx, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fun(ctx)
	})

	return err
}

// InTransactionR run `fun` in db transactions; return `fun` result and error.
func InTransactionR[T any](ctx context.Context, r repository.Database,
	fun func(context.Context) (T, error),
) (T, error) {
	if _, ok := Ctx(ctx); ok {
		return fun(ctx)
	}

	start := time.Now()
	defer observeQueryDuration(start)

	conn, err := r.GetConnection(ctx)
	if err != nil {
		return *new(T), err //nolint:wrapcheck
	}

	defer closeConnection(ctx, r, conn)

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return *new(T), aerr.ApplyFor(aerr.ErrDatabase, err, "begin tx failed")
	}

	res, err := fun(WithCtx(ctx, tx))
	if err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			merr := errors.Join(err, fmt.Errorf("rollback error: %w", rerr))

			return res, aerr.ApplyFor(aerr.ErrDatabase, merr, "execute func in trans and rollback error")
		}

		return res, err
	}

	if err := tx.Commit(); err != nil {
		return res, aerr.ApplyFor(aerr.ErrDatabase, err, "commit tx failed")
	}

	return res, nil
}

func closeConnection(ctx context.Context, r repository.Database, conn *sqlx.Conn) {
	if err := r.CloseConnection(ctx, conn); err != nil {
		log.Ctx(ctx).Error().Err(err).Msgf("DB: close connection error=%q", err)
	}
}
