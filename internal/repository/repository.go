// Package repository define storage interfaces; implementations are in infra.
package repository

//
// repository.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

// Database is subscribers registry storage.
type Database interface {
	Open(ctx context.Context) (*sqlx.DB, error)
	GetDB() *sql.DB
	GetConnection(ctx context.Context) (*sqlx.Conn, error)
	CloseConnection(ctx context.Context, conn *sqlx.Conn) error
	Migrate(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Subscribers repository. All methods require database context (see db.WithCtx).
type Subscribers interface {
	// GetSubscriber return subscriber or common.ErrNoData.
	GetSubscriber(ctx context.Context, userID int64) (*model.Subscriber, error)
	// SaveSubscriber insert or update subscriber.
	SaveSubscriber(ctx context.Context, sub *model.Subscriber) error
	DeleteSubscriber(ctx context.Context, userID int64) error
	// ListSubscribers return all subscribers when level is nil; otherwise
	// subscribers of given level and subscribers of all levels.
	ListSubscribers(ctx context.Context, level *model.Level) ([]model.Subscriber, error)
}

type Maintenance interface {
	Maintenance(ctx context.Context) error
}
