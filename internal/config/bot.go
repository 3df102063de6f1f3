package config

// bot.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.

import (
	"gitlab.com/kabes/go-integwatch/internal/aerr"
)

// BotConf configure telegram bot.
type BotConf struct {
	Token   string
	AdminID int64
	// UpdateTimeout is long-polling timeout in seconds.
	UpdateTimeout int

	DebugFlags DebugFlags
}

func (c *BotConf) Validate() error {
	if c.Token == "" {
		return aerr.ErrValidation.WithUserMsg("bot token can't be empty")
	}

	if c.AdminID == 0 {
		return aerr.ErrValidation.WithUserMsg("admin id can't be empty")
	}

	if c.UpdateTimeout <= 0 {
		c.UpdateTimeout = 60
	}

	return nil
}

func (c *BotConf) IsAdmin(userID int64) bool {
	return userID == c.AdminID
}
