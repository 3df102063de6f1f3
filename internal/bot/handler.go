// Package bot implement commands handled by telegram bot.
package bot

//
// handler.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/common"
	"gitlab.com/kabes/go-integwatch/internal/config"
	"gitlab.com/kabes/go-integwatch/internal/model"
	"gitlab.com/kabes/go-integwatch/internal/service"
	"gitlab.com/kabes/go-integwatch/internal/watcher"
)

const (
	msgWelcome         = "Hi! This bot will notify you the moment anything changes on the Integratsioon website. Send /stop to unsubscribe."
	msgNotSubscribed   = "You are already not subscribed."
	msgUnsubscribed    = "Unsubscribed you. Send /start to subscribe again."
	msgLevelQuestion   = "You are subscribed to %s. Choose another if you want."
	msgUnknownCallback = "Cannot find you, try /start"
	msgLevelSet        = "Watching for courses for language level %s"
	msgLogRequested    = "Go check the logs on server with sudo journalctl -u integratsioon"
	msgSendStart       = "Send /start to subscribe."
	msgCookieSaved     = "Saved new cookie."

	levelCallbackPrefix = "level:"
)

// Replier send responses to user.
type Replier interface {
	watcher.Sender
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Subscribers manage bot users.
type Subscribers interface {
	Find(ctx context.Context, userID int64) (*model.Subscriber, error)
	Subscribe(ctx context.Context, userID int64) (bool, error)
	Unsubscribe(ctx context.Context, userID int64) error
	SetLevel(ctx context.Context, userID int64, level model.Level) (*model.Subscriber, error)
}

// Watcher is subset of poller operations available for admin.
type Watcher interface {
	RequestDiagnostic()
	HealthCheck(ctx context.Context) (string, error)
}

type AdminNotifier interface {
	NotifyAdmin(ctx context.Context, text string)
}

// Handler process incoming messages and callbacks.
type Handler struct {
	replier     Replier
	subscribers Subscribers
	watcher     Watcher
	notifier    AdminNotifier
	session     *watcher.Session
	adminID     int64
}

func NewHandler(replier Replier, subscribers Subscribers, watch Watcher, notifier AdminNotifier,
	session *watcher.Session, adminID int64,
) *Handler {
	return &Handler{
		replier:     replier,
		subscribers: subscribers,
		watcher:     watch,
		notifier:    notifier,
		session:     session,
		adminID:     adminID,
	}
}

func NewHandlerI(i do.Injector) (*Handler, error) {
	return NewHandler(
		do.MustInvoke[Replier](i),
		do.MustInvoke[*service.SubscribersSrv](i),
		do.MustInvoke[*watcher.Poller](i),
		do.MustInvoke[*watcher.Notifier](i),
		do.MustInvoke[*watcher.Session](i),
		do.MustInvoke[*config.BotConf](i).AdminID,
	), nil
}

// HandleMessage process one incoming message.
func (h *Handler) HandleMessage(ctx context.Context, msg *Message) error {
	ctx = common.ContextWithUserID(ctx, msg.UserID)
	logger := log.Ctx(ctx)
	logger.Debug().Object("msg", msg).Msg("Handler: handle message")

	switch msg.Command {
	case "start":
		return h.start(ctx, msg)
	case "stop":
		return h.stop(ctx, msg)
	case "level":
		return h.level(ctx, msg)
	case "log":
		if h.isAdmin(msg.UserID) {
			return h.diagnostic(ctx, msg)
		}
	case "health":
		if h.isAdmin(msg.UserID) {
			return h.health(ctx, msg)
		}
	default:
		return h.text(ctx, msg)
	}

	logger.Info().Msgf("Handler: admin command %q from user_id=%d ignored", msg.Command, msg.UserID)

	return nil
}

// HandleCallback process inline keyboard callback.
func (h *Handler) HandleCallback(ctx context.Context, cb *Callback) error {
	ctx = common.ContextWithUserID(ctx, cb.UserID)
	logger := log.Ctx(ctx)
	logger.Debug().Object("callback", cb).Msg("Handler: handle callback")

	code, ok := strings.CutPrefix(cb.Data, levelCallbackPrefix)
	if !ok {
		logger.Info().Msgf("Handler: unknown callback data=%q", cb.Data)

		return nil
	}

	level := model.Level(code)

	_, err := h.subscribers.SetLevel(ctx, cb.UserID, level)
	if errors.Is(err, common.ErrUnknownSubscriber) {
		return h.answer(ctx, cb.ID, msgUnknownCallback)
	} else if err != nil {
		return aerr.Wrapf(err, "set level failed").WithMeta("level", level)
	}

	logger.Info().Str(common.LogKeyLevel, string(level)).Msgf("Handler: user_id=%d set level=%q", cb.UserID, level)

	if err := h.answer(ctx, cb.ID, ""); err != nil {
		logger.Warn().Err(err).Msgf("Handler: answer callback error=%q", err)
	}

	levelName := string(level)
	if level.IsAny() {
		levelName = "any"
	}

	return h.send(ctx, cb.UserID, model.NewTextMessage(fmt.Sprintf(msgLevelSet, levelName)))
}

//-------------------------------------------------------------

func (h *Handler) start(ctx context.Context, msg *Message) error {
	created, err := h.subscribers.Subscribe(ctx, msg.UserID)
	if err != nil {
		return aerr.Wrapf(err, "subscribe failed")
	}

	if created {
		if err := h.send(ctx, msg.ChatID, model.NewTextMessage(msgWelcome)); err != nil {
			return err
		}
	}

	sub, err := h.subscribers.Find(ctx, msg.UserID)
	if err != nil {
		return aerr.Wrapf(err, "find subscriber failed")
	}

	return h.levelQuestion(ctx, sub)
}

func (h *Handler) stop(ctx context.Context, msg *Message) error {
	err := h.subscribers.Unsubscribe(ctx, msg.UserID)
	if errors.Is(err, common.ErrUnknownSubscriber) {
		return h.send(ctx, msg.ChatID, model.NewTextMessage(msgNotSubscribed))
	} else if err != nil {
		return aerr.Wrapf(err, "unsubscribe failed")
	}

	return h.send(ctx, msg.ChatID, model.NewTextMessage(msgUnsubscribed))
}

func (h *Handler) level(ctx context.Context, msg *Message) error {
	sub, err := h.subscribers.Find(ctx, msg.UserID)
	if errors.Is(err, common.ErrUnknownSubscriber) {
		return h.start(ctx, msg)
	} else if err != nil {
		return aerr.Wrapf(err, "find subscriber failed")
	}

	return h.levelQuestion(ctx, sub)
}

func (h *Handler) levelQuestion(ctx context.Context, sub *model.Subscriber) error {
	current := "all language levels"
	if !sub.Level.IsAny() {
		current = "level " + string(sub.Level)
	}

	msg := model.NewHTMLMessage(fmt.Sprintf(msgLevelQuestion, current)).WithButtons(levelKeyboard()...)

	return h.send(ctx, sub.UserID, msg)
}

func (h *Handler) diagnostic(ctx context.Context, msg *Message) error {
	log.Ctx(ctx).Info().Msg("Handler: diagnostic requested")
	h.watcher.RequestDiagnostic()

	return h.send(ctx, msg.ChatID, model.NewTextMessage(msgLogRequested))
}

func (h *Handler) health(ctx context.Context, msg *Message) error {
	report, err := h.watcher.HealthCheck(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msgf("Handler: health check error=%q", err)
		h.notifier.NotifyAdmin(ctx, watcher.AlertText(err))

		return nil
	}

	return h.send(ctx, msg.ChatID, model.NewTextMessage(report))
}

func (h *Handler) text(ctx context.Context, msg *Message) error {
	if msg.FromBot {
		return nil
	}

	if !h.isAdmin(msg.UserID) {
		_, err := h.subscribers.Find(ctx, msg.UserID)
		if errors.Is(err, common.ErrUnknownSubscriber) {
			return h.send(ctx, msg.ChatID, model.NewTextMessage(msgSendStart))
		} else if err != nil {
			return aerr.Wrapf(err, "find subscriber failed")
		}

		return nil
	}

	token, ok := watcher.ParseSessionMessage(msg.Text)
	if !ok {
		return nil
	}

	h.session.SetToken(token)
	log.Ctx(ctx).Info().Msg("Handler: new session cookie saved")

	return h.send(ctx, msg.ChatID, model.NewTextMessage(msgCookieSaved))
}

//-------------------------------------------------------------

func (h *Handler) isAdmin(userID int64) bool {
	return userID == h.adminID
}

func (h *Handler) send(ctx context.Context, chatID int64, msg model.Message) error {
	if err := h.replier.SendMessage(ctx, chatID, msg); err != nil {
		return aerr.Wrapf(err, "send message failed").WithMeta("chat_id", chatID)
	}

	return nil
}

func (h *Handler) answer(ctx context.Context, callbackID, text string) error {
	if err := h.replier.AnswerCallback(ctx, callbackID, text); err != nil {
		return aerr.Wrapf(err, "answer callback failed")
	}

	return nil
}

func levelKeyboard() [][]model.Button {
	levels := make([]model.Button, 0, len(model.AllLevels))
	for _, l := range model.AllLevels {
		levels = append(levels, model.Button{Text: string(l), Data: levelCallbackPrefix + string(l)})
	}

	return [][]model.Button{
		levels,
		{{Text: "All levels", Data: levelCallbackPrefix}},
	}
}
