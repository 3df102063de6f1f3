package telegram

//
// client_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gitlab.com/kabes/go-integwatch/internal/assert"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

func TestNewMessageConfig(t *testing.T) {
	mc := newMessageConfig(10, model.NewTextMessage("hello"))
	assert.Equal(t, mc.ChatID, int64(10))
	assert.Equal(t, mc.Text, "hello")
	assert.Equal(t, mc.ParseMode, "")
	assert.True(t, mc.ReplyMarkup == nil)

	msg := model.NewHTMLMessage("<b>level</b>").WithButtons(
		[]model.Button{{Text: "A2", Data: "level:A2"}, {Text: "B1", Data: "level:B1"}},
		[]model.Button{{Text: "All levels", Data: "level:"}},
	)

	mc = newMessageConfig(11, msg)
	assert.Equal(t, mc.ParseMode, tgbotapi.ModeHTML)

	markup, ok := mc.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.True(t, ok)
	assert.Len(t, markup.InlineKeyboard, 2)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, markup.InlineKeyboard[0][1].Text, "B1")
	assert.Equal(t, *markup.InlineKeyboard[1][0].CallbackData, "level:")
}
