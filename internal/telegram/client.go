// Package telegram connect bot handler and notifier with Telegram Bot API.
package telegram

//
// client.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/common"
	"gitlab.com/kabes/go-integwatch/internal/config"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

var ErrTelegram = aerr.New("telegram api error").WithTag(aerr.InternalError)

// Client send messages using Bot API.
type Client struct {
	api     *tgbotapi.BotAPI
	logBody bool
}

func NewClientI(i do.Injector) (*Client, error) {
	conf := do.MustInvoke[*config.BotConf](i)

	tgbotapi.SetLogger(botLogger{}) //nolint:errcheck

	api, err := tgbotapi.NewBotAPI(conf.Token)
	if err != nil {
		return nil, aerr.ApplyFor(ErrTelegram, err, "", "connect to telegram failed")
	}

	api.Debug = conf.DebugFlags.HasFlag(config.DebugBotAPI)

	log.Logger.Info().Msgf("Telegram: authorized as %q (id=%d)", api.Self.UserName, api.Self.ID)

	return &Client{
		api:     api,
		logBody: conf.DebugFlags.HasFlag(config.DebugMsgBody),
	}, nil
}

// SendMessage send message to chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, msg model.Message) error {
	if err := ctx.Err(); err != nil {
		return aerr.Wrap(err)
	}

	logger := log.Ctx(ctx)
	if c.logBody {
		logger.Debug().Int64(common.LogKeyChatID, chatID).Str("text", msg.Text).Msg("Telegram: send message")
	}

	if _, err := c.api.Send(newMessageConfig(chatID, msg)); err != nil {
		return aerr.ApplyFor(ErrTelegram, err, "send message failed").
			WithMeta("chat_id", chatID, "user_id", common.ContextUserID(ctx))
	}

	return nil
}

// AnswerCallback confirm callback query; non-empty text is shown to user.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return aerr.Wrap(err)
	}

	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return aerr.ApplyFor(ErrTelegram, err, "answer callback failed")
	}

	return nil
}

// HealthCheck verify bot token is valid. Called by samber/do.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return aerr.Wrap(err)
	}

	if _, err := c.api.GetMe(); err != nil {
		return aerr.ApplyFor(ErrTelegram, err, "get me failed")
	}

	return nil
}

func newMessageConfig(chatID int64, msg model.Message) tgbotapi.MessageConfig {
	mc := tgbotapi.NewMessage(chatID, msg.Text)
	if msg.HTML {
		mc.ParseMode = tgbotapi.ModeHTML
	}

	if len(msg.Buttons) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(msg.Buttons))
		for _, row := range msg.Buttons {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}

			rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
		}

		mc.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	return mc
}

//-------------------------------------------------------------

// botLogger redirect Bot API library logs to zerolog.
type botLogger struct{}

func (botLogger) Println(v ...any) {
	log.Logger.Debug().Msg("Telegram: " + fmt.Sprint(v...))
}

func (botLogger) Printf(format string, v ...any) {
	log.Logger.Debug().Msgf("Telegram: "+format, v...)
}
