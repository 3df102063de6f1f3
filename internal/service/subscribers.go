package service

//
// subscribers.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/common"
	"gitlab.com/kabes/go-integwatch/internal/db"
	"gitlab.com/kabes/go-integwatch/internal/model"
	"gitlab.com/kabes/go-integwatch/internal/repository"
)

type SubscribersSrv struct {
	db       repository.Database
	subsRepo repository.Subscribers
	now      func() time.Time
}

func NewSubscribersSrv(i do.Injector) (*SubscribersSrv, error) {
	return &SubscribersSrv{
		db:       do.MustInvoke[repository.Database](i),
		subsRepo: do.MustInvoke[repository.Subscribers](i),
		now:      time.Now,
	}, nil
}

// Find subscriber and update its last activity time. Return ErrUnknownSubscriber when user is not subscribed.
func (s *SubscribersSrv) Find(ctx context.Context, userID int64) (*model.Subscriber, error) {
	log.Ctx(ctx).Debug().Int64(common.LogKeyUserID, userID).Msg("find subscriber")

	//nolint:wrapcheck
	return db.InTransactionR(ctx, s.db, func(ctx context.Context) (*model.Subscriber, error) {
		sub, err := s.get(ctx, userID)
		if err != nil {
			return nil, err
		}

		sub.LastActive = s.now().UTC()
		if err := s.subsRepo.SaveSubscriber(ctx, sub); err != nil {
			return nil, aerr.ApplyFor(ErrRepositoryError, err, "save subscriber failed")
		}

		return sub, nil
	})
}

// Subscribe create new subscriber watching all levels. Existing subscriber is not modified.
// Return true when subscriber was created.
func (s *SubscribersSrv) Subscribe(ctx context.Context, userID int64) (bool, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Int64(common.LogKeyUserID, userID).Msg("subscribe")

	if userID == 0 {
		return false, common.ErrInvalidUserID
	}

	//nolint:wrapcheck
	return db.InTransactionR(ctx, s.db, func(ctx context.Context) (bool, error) {
		sub, err := s.get(ctx, userID)

		switch {
		case err == nil:
			sub.LastActive = s.now().UTC()
			if err := s.subsRepo.SaveSubscriber(ctx, sub); err != nil {
				return false, aerr.ApplyFor(ErrRepositoryError, err, "save subscriber failed")
			}

			return false, nil
		case !errors.Is(err, common.ErrUnknownSubscriber):
			return false, err
		}

		sub = &model.Subscriber{UserID: userID, Level: model.LevelAny, LastActive: s.now().UTC()}
		if err := s.subsRepo.SaveSubscriber(ctx, sub); err != nil {
			return false, aerr.ApplyFor(ErrRepositoryError, err, "create subscriber failed")
		}

		logger.Info().Int64(common.LogKeyUserID, userID).Msgf("new subscriber user_id=%d", userID)

		return true, nil
	})
}

// Unsubscribe remove subscriber; return ErrUnknownSubscriber when not subscribed.
func (s *SubscribersSrv) Unsubscribe(ctx context.Context, userID int64) error {
	logger := log.Ctx(ctx)
	logger.Debug().Int64(common.LogKeyUserID, userID).Msg("unsubscribe")

	//nolint:wrapcheck
	return db.InTransaction(ctx, s.db, func(ctx context.Context) error {
		err := s.subsRepo.DeleteSubscriber(ctx, userID)
		if errors.Is(err, common.ErrNoData) {
			return common.ErrUnknownSubscriber
		} else if err != nil {
			return aerr.ApplyFor(ErrRepositoryError, err, "delete subscriber failed")
		}

		logger.Info().Int64(common.LogKeyUserID, userID).Msgf("subscriber removed user_id=%d", userID)

		return nil
	})
}

// SetLevel change level watched by subscriber. LevelAny mean all levels.
func (s *SubscribersSrv) SetLevel(ctx context.Context, userID int64, level model.Level) (*model.Subscriber, error) {
	log.Ctx(ctx).Debug().Int64(common.LogKeyUserID, userID).Str(common.LogKeyLevel, string(level)).
		Msg("set subscriber level")

	if !level.Valid() {
		return nil, common.ErrInvalidLevel.WithUserMsg("invalid level %q", level)
	}

	//nolint:wrapcheck
	return db.InTransactionR(ctx, s.db, func(ctx context.Context) (*model.Subscriber, error) {
		sub, err := s.get(ctx, userID)
		if err != nil {
			return nil, err
		}

		sub.Level = level
		sub.LastActive = s.now().UTC()

		if err := s.subsRepo.SaveSubscriber(ctx, sub); err != nil {
			return nil, aerr.ApplyFor(ErrRepositoryError, err, "save subscriber failed")
		}

		return sub, nil
	})
}

// ListForLevel return subscribers that should be notified about changes on given level.
func (s *SubscribersSrv) ListForLevel(ctx context.Context, level model.Level) ([]model.Subscriber, error) {
	return s.List(ctx, &level)
}

// List subscribers of level (including watching all levels) or all subscribers when level is nil.
func (s *SubscribersSrv) List(ctx context.Context, level *model.Level) ([]model.Subscriber, error) {
	//nolint:wrapcheck
	return db.InConnectionR(ctx, s.db, func(ctx context.Context) ([]model.Subscriber, error) {
		subs, err := s.subsRepo.ListSubscribers(ctx, level)
		if err != nil {
			return nil, aerr.ApplyFor(ErrRepositoryError, err, "list subscribers failed")
		}

		return subs, nil
	})
}

func (s *SubscribersSrv) get(ctx context.Context, userID int64) (*model.Subscriber, error) {
	sub, err := s.subsRepo.GetSubscriber(ctx, userID)
	if errors.Is(err, common.ErrNoData) {
		return nil, common.ErrUnknownSubscriber
	} else if err != nil {
		return nil, aerr.ApplyFor(ErrRepositoryError, err, "get subscriber failed")
	}

	return sub, nil
}
