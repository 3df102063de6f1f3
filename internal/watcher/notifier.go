package watcher

//
// notifier.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/common"
	"gitlab.com/kabes/go-integwatch/internal/config"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

// Sender deliver message to chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, msg model.Message) error
}

// SubscriberSource list subscribers interested in level.
type SubscriberSource interface {
	ListForLevel(ctx context.Context, level model.Level) ([]model.Subscriber, error)
}

type Notifier struct {
	sender      Sender
	subscribers SubscriberSource
	state       *State
	adminID     int64
}

func NewNotifier(sender Sender, subscribers SubscriberSource, state *State, adminID int64) *Notifier {
	return &Notifier{
		sender:      sender,
		subscribers: subscribers,
		state:       state,
		adminID:     adminID,
	}
}

func NewNotifierI(i do.Injector) (*Notifier, error) {
	botconf := do.MustInvoke[*config.BotConf](i)

	return NewNotifier(
		do.MustInvoke[Sender](i),
		do.MustInvoke[SubscriberSource](i),
		do.MustInvoke[*State](i),
		botconf.AdminID,
	), nil
}

// NotifyLevel send msg to all subscribers of level. Delivery failures are logged and skipped.
// Return number of delivered messages.
func (n *Notifier) NotifyLevel(ctx context.Context, level model.Level, msg model.Message) (int, error) {
	logger := log.Ctx(ctx)

	subs, err := n.subscribers.ListForLevel(ctx, level)
	if err != nil {
		return 0, aerr.Wrapf(err, "list subscribers failed").WithMeta("level", level)
	}

	logger.Debug().Str(common.LogKeyLevel, string(level)).
		Msgf("Notifier: notify level=%q subscribers=%d", level, len(subs))

	delivered := 0

	for _, sub := range subs {
		if err := n.sender.SendMessage(ctx, sub.UserID, msg); err != nil {
			metricNotifications.WithLabelValues("subscriber", "error").Inc()
			logger.Warn().Err(err).Int64(common.LogKeyChatID, sub.UserID).
				Msgf("Notifier: send message to chat_id=%d error=%q", sub.UserID, err)

			continue
		}

		metricNotifications.WithLabelValues("subscriber", "ok").Inc()

		delivered++
	}

	return delivered, nil
}

// NotifyAdmin send text to admin unless it is the same as the last one.
func (n *Notifier) NotifyAdmin(ctx context.Context, text string) {
	logger := log.Ctx(ctx)

	if !n.state.ReplaceAdminText(text) {
		logger.Debug().Msgf("Notifier: skip repeated admin message text=%q", text)

		return
	}

	logger.Info().Msgf("Notifier: notify admin text=%q", text)

	if err := n.sender.SendMessage(ctx, n.adminID, model.NewTextMessage(text)); err != nil {
		metricNotifications.WithLabelValues("admin", "error").Inc()
		logger.Error().Err(err).Msgf("Notifier: send message to admin error=%q", err)

		return
	}

	metricNotifications.WithLabelValues("admin", "ok").Inc()
}
