// subscriber.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package model

import (
	"time"

	"github.com/rs/zerolog"
)

// Subscriber is telegram user waiting for notifications. Empty Level mean all levels.
type Subscriber struct {
	UserID     int64
	Level      Level
	LastActive time.Time
}

func (s *Subscriber) Wants(level Level) bool {
	return s.Level.IsAny() || s.Level == level
}

func (s *Subscriber) MarshalZerologObject(event *zerolog.Event) {
	event.Int64("user_id", s.UserID).
		Str("level", string(s.Level)).
		Time("last_active", s.LastActive)
}
