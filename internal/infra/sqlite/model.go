package sqlite

// model.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

type SubscriberDB struct {
	UserID     int64          `db:"user_id"`
	Level      sql.NullString `db:"level"`
	LastActive int64          `db:"last_active"`
}

func newSubscriberDB(sub *model.Subscriber) SubscriberDB {
	return SubscriberDB{
		UserID:     sub.UserID,
		Level:      sql.NullString{String: string(sub.Level), Valid: !sub.Level.IsAny()},
		LastActive: sub.LastActive.Unix(),
	}
}

func (s *SubscriberDB) ToModel() *model.Subscriber {
	var lastActive time.Time
	if s.LastActive > 0 {
		lastActive = time.Unix(s.LastActive, 0).UTC()
	}

	return &model.Subscriber{
		UserID:     s.UserID,
		Level:      model.Level(s.Level.String),
		LastActive: lastActive,
	}
}

func (s *SubscriberDB) MarshalZerologObject(event *zerolog.Event) {
	event.Int64("user_id", s.UserID).
		Str("level", s.Level.String).
		Bool("level_set", s.Level.Valid).
		Int64("last_active", s.LastActive)
}
