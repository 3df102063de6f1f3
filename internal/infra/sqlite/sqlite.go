// Package sqlite implement repositories for sqlite database.
package sqlite

//
// sqlite.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/config"
)

type Repository struct{}

//------------------------------------------------------------------------------

const (
	ConnMaxIdleTime = 30 * time.Second
	ConnMaxLifetime = 60 * time.Second
	MaxIdleConns    = 1
	MaxOpenConns    = 10
)

//------------------------------------------------------------------------------

type Database struct {
	db      *sqlx.DB
	connstr string
}

func NewDatabaseI(i do.Injector) (*Database, error) {
	dbconf := do.MustInvoke[config.DBConfig](i)

	connstr, err := prepareSqliteConnstr(dbconf.Connstr)
	if err != nil {
		return nil, aerr.Wrapf(err, "invalid db.connstr")
	}

	return &Database{
		db:      nil,
		connstr: connstr,
	}, nil
}

func (d *Database) Open(ctx context.Context) (*sqlx.DB, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Msgf("sqlite.Database: connecting to %q", d.connstr)

	var err error

	d.db, err = sqlx.Open("sqlite3", d.connstr)
	if err != nil {
		return nil, aerr.Wrapf(err, "open database failed").WithTag(aerr.InternalError).WithMeta("connstr", d.connstr)
	}

	if isMemoryDB(d.connstr) {
		// every connection to :memory: open new, empty database
		d.db.SetMaxOpenConns(1)
		d.db.SetMaxIdleConns(1)
		d.db.SetConnMaxIdleTime(0)
		d.db.SetConnMaxLifetime(0)
	} else {
		d.db.SetConnMaxIdleTime(ConnMaxIdleTime)
		d.db.SetConnMaxLifetime(ConnMaxLifetime)
		d.db.SetMaxIdleConns(MaxIdleConns)
		d.db.SetMaxOpenConns(MaxOpenConns)
	}

	if err := d.onOpenConn(ctx, d.db); err != nil {
		return nil, aerr.Wrapf(err, "open database failed - run init script error").
			WithTag(aerr.InternalError)
	}

	if err := d.db.PingContext(ctx); err != nil {
		return nil, aerr.Wrapf(err, "ping database failed").WithTag(aerr.InternalError)
	}

	return d.db, nil
}

// Shutdown close database. Called by samber/do.
func (d *Database) Shutdown(ctx context.Context) error {
	if d.db == nil {
		return nil
	}

	logger := log.Ctx(ctx)
	logger.Debug().Msg("sqlite.Database: closing database...")

	err := d.db.Close()
	d.db = nil

	if err != nil {
		return aerr.Wrapf(err, "close db error")
	}

	return nil
}

func (d *Database) GetDB() *sql.DB {
	if d.db != nil {
		return d.db.DB
	}

	return nil
}

func (d *Database) GetConnection(ctx context.Context) (*sqlx.Conn, error) {
	if d.db == nil {
		return nil, aerr.ErrDatabase.WithMsg("database not opened")
	}

	conn, err := d.db.Connx(ctx)
	if err != nil {
		return nil, aerr.ApplyFor(aerr.ErrDatabase, err, "failed open connection")
	}

	if err := d.onOpenConn(ctx, conn); err != nil {
		conn.Close() //nolint:errcheck

		return nil, aerr.ApplyFor(aerr.ErrDatabase, err, "failed run onOpenConn scripts")
	}

	return conn, nil
}

func (d *Database) CloseConnection(ctx context.Context, conn *sqlx.Conn) error {
	if err := d.onCloseConn(ctx, conn); err != nil {
		conn.Close() //nolint:errcheck

		return aerr.ApplyFor(aerr.ErrDatabase, err, "run scripts onClose failed")
	}

	if err := conn.Close(); err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "close connection failed")
	}

	return nil
}

func (d *Database) Migrate(ctx context.Context) error {
	logger := log.Ctx(ctx)

	migdir, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		panic(fmt.Errorf("prepare migration fs failed: %w", err))
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, d.db.DB, migdir)
	if err != nil {
		panic(fmt.Errorf("create goose provider failed: %w", err))
	}

	ver, err := provider.GetDBVersion(ctx)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "", "failed to check current database version")
	}

	logger.Info().Msgf("sqlite.Database: current database version: %d", ver)

	for {
		res, err := provider.UpByOne(ctx)
		if res != nil {
			logger.Debug().Msgf("sqlite.Database: migration: %s", res)
		}

		if errors.Is(err, goose.ErrNoNextVersion) {
			break
		} else if err != nil {
			return aerr.ApplyFor(aerr.ErrDatabase, err, "", "migrate database up failed")
		}
	}

	ver, err = provider.GetDBVersion(ctx)
	if err != nil {
		return aerr.ApplyFor(aerr.ErrDatabase, err, "", "failed to check current database version")
	}

	logger.Info().Msgf("sqlite.Database: migrated database version: %d", ver)

	return nil
}

func (d *Database) HealthCheck(ctx context.Context) error {
	if d.db == nil {
		return aerr.ErrDatabase.WithMsg("database not opened")
	}

	if err := d.db.PingContext(ctx); err != nil {
		return aerr.Wrapf(err, "ping database failed").WithTag(aerr.InternalError)
	}

	return nil
}

func (d *Database) onOpenConn(ctx context.Context, db sqlx.ExecerContext) error {
	_, err := db.ExecContext(ctx,
		`PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 1000;
		`,
	)
	if err != nil {
		return aerr.Wrap(err)
	}

	return nil
}

func (d *Database) onCloseConn(ctx context.Context, db sqlx.ExecerContext) error {
	if _, err := db.ExecContext(ctx, `PRAGMA optimize`); err != nil {
		return aerr.Wrap(err)
	}

	return nil
}

//------------------------------------------------------------------------------

func isMemoryDB(connstr string) bool {
	return strings.HasPrefix(connstr, ":memory:") || strings.Contains(connstr, "mode=memory")
}

func prepareSqliteConnstr(connstr string) (string, error) {
	if connstr == "" {
		return "", aerr.ErrInvalidConf.WithUserMsg("invalid (empty) database connection string")
	}

	if connstr == ":memory:" {
		return ":memory:?_fk=ON", nil
	}

	parsed, err := url.Parse(connstr)
	if err != nil {
		return "", aerr.ApplyFor(aerr.ErrInvalidConf, err, "", "failed to parse database connections string")
	}

	if parsed.Path == "" {
		return "", aerr.ErrInvalidConf.WithUserMsg("invalid database connection string - missing path")
	}

	query := parsed.Query()
	if !query.Has("_fk") && !query.Has("__foreign_keys") {
		query.Set("_fk", "ON")
	}

	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
