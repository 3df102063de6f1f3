package service

//
// testhelpers_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	stdlog "log"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/config"
	"gitlab.com/kabes/go-integwatch/internal/infra"
	"gitlab.com/kabes/go-integwatch/internal/repository"
)

func prepareTests(t *testing.T) (context.Context, *do.RootScope) {
	t.Helper()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout}).With().Caller().Stack().Logger()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	ctx := log.Logger.WithContext(context.Background())
	i := do.New(Package, infra.Package)
	do.ProvideValue(i, config.NewDBConfig("sqlite", ":memory:"))

	db := do.MustInvoke[repository.Database](i)
	if _, err := db.Open(ctx); err != nil {
		t.Fatalf("connect to db error: %#+v", err)
	}

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("prepare db error: %#+v", err)
	}

	t.Cleanup(func() { i.Shutdown() }) //nolint:errcheck

	return ctx, i
}

func prepareTestSubscriber(ctx context.Context, t *testing.T, i do.Injector, userID int64) {
	t.Helper()

	subsSrv := do.MustInvoke[*SubscribersSrv](i)
	if _, err := subsSrv.Subscribe(ctx, userID); err != nil {
		t.Fatalf("create test subscriber failed: %#+v", err)
	}
}
