package bot

//
// message.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"strings"

	"github.com/rs/zerolog"
)

// Message is incoming text message.
type Message struct {
	ChatID  int64
	UserID  int64
	FromBot bool
	Text    string
	// Command without leading slash and bot name; empty for plain text.
	Command string
}

// NewMessage create message and detect command in text.
func NewMessage(chatID, userID int64, fromBot bool, text string) *Message {
	return &Message{
		ChatID:  chatID,
		UserID:  userID,
		FromBot: fromBot,
		Text:    text,
		Command: parseCommand(text),
	}
}

func (m *Message) MarshalZerologObject(event *zerolog.Event) {
	event.Int64("chat_id", m.ChatID).
		Int64("user_id", m.UserID).
		Bool("from_bot", m.FromBot).
		Str("command", m.Command)
}

// Callback is inline keyboard button press.
type Callback struct {
	ID     string
	UserID int64
	Data   string
}

func (c *Callback) MarshalZerologObject(event *zerolog.Event) {
	event.Str("id", c.ID).
		Int64("user_id", c.UserID).
		Str("data", c.Data)
}

// parseCommand return command name from "/cmd@botname args".
func parseCommand(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}

	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return ""
	}

	cmd, _, _ := strings.Cut(fields[0], "@")

	return cmd
}
