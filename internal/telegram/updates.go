package telegram

//
// updates.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/xid"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/bot"
	"gitlab.com/kabes/go-integwatch/internal/common"
	"gitlab.com/kabes/go-integwatch/internal/config"
)

// Handler process converted updates.
type Handler interface {
	HandleMessage(ctx context.Context, msg *bot.Message) error
	HandleCallback(ctx context.Context, cb *bot.Callback) error
}

// Updates receive updates with long polling and pass them to handler.
type Updates struct {
	client  *Client
	handler Handler
	timeout int
}

func NewUpdatesI(i do.Injector) (*Updates, error) {
	return &Updates{
		client:  do.MustInvoke[*Client](i),
		handler: do.MustInvoke[*bot.Handler](i),
		timeout: do.MustInvoke[*config.BotConf](i).UpdateTimeout,
	}, nil
}

// Run process updates until ctx is cancelled. Updates sent before start are skipped.
func (u *Updates) Run(ctx context.Context) {
	logger := log.Ctx(ctx)

	eventlog := common.NewEventLog("bot updates", "worker")
	defer eventlog.Close()

	ctx = common.ContextWithEventLog(ctx, eventlog)

	cfg := tgbotapi.NewUpdate(u.skipPending(ctx))
	cfg.Timeout = u.timeout

	updates := u.client.api.GetUpdatesChan(cfg)

	logger.Info().Msgf("Telegram: start receiving updates; offset=%d", cfg.Offset)

	for {
		select {
		case <-ctx.Done():
			u.client.api.StopReceivingUpdates()
			logger.Info().Msg("Telegram: stopped receiving updates")

			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			u.handle(ctx, &update)
		}
	}
}

func (u *Updates) handle(ctx context.Context, update *tgbotapi.Update) {
	reqID := xid.New()
	llog := log.Ctx(ctx).With().Str(common.LogKeyReqID, reqID.String()).Int("update_id", update.UpdateID).Logger()
	ctx = llog.WithContext(hlog.CtxWithID(ctx, reqID))

	var err error

	switch {
	case update.Message != nil && update.Message.From != nil:
		m := update.Message
		err = u.handler.HandleMessage(ctx, bot.NewMessage(m.Chat.ID, m.From.ID, m.From.IsBot, m.Text))
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		q := update.CallbackQuery
		err = u.handler.HandleCallback(ctx, &bot.Callback{ID: q.ID, UserID: q.From.ID, Data: q.Data})
	default:
		llog.Debug().Msg("Telegram: skip unsupported update")

		return
	}

	if err != nil {
		llog.Error().Err(err).Msgf("Telegram: handle update error=%q", err)
		common.EventLogErrorf(ctx, "handle update %d error=%q", update.UpdateID, err)
	}
}

// skipPending return offset after last pending update.
func (u *Updates) skipPending(ctx context.Context) int {
	pending, err := u.client.api.GetUpdates(tgbotapi.UpdateConfig{Offset: -1, Limit: 1})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msgf("Telegram: get pending updates error=%q", err)

		return 0
	}

	if len(pending) == 0 {
		return 0
	}

	return pending[len(pending)-1].UpdateID + 1
}
