package service

//
// subscribers_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"fmt"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/assert"
	"gitlab.com/kabes/go-integwatch/internal/common"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

func TestSubscribe(t *testing.T) {
	ctx, i := prepareTests(t)
	subsSrv := do.MustInvoke[*SubscribersSrv](i)

	created, err := subsSrv.Subscribe(ctx, 10)
	assert.NoErr(t, err)
	assert.True(t, created)

	created, err = subsSrv.Subscribe(ctx, 10)
	assert.NoErr(t, err)
	assert.Equal(t, created, false)

	_, err = subsSrv.Subscribe(ctx, 0)
	assert.ErrSpec(t, err, common.ErrInvalidUserID)

	sub, err := subsSrv.Find(ctx, 10)
	assert.NoErr(t, err)
	assert.Equal(t, sub.UserID, int64(10))
	assert.Equal(t, sub.Level, model.LevelAny)

	_, err = subsSrv.Find(ctx, 11)
	assert.ErrSpec(t, err, common.ErrUnknownSubscriber)
}

func TestFindTouchLastActive(t *testing.T) {
	ctx, i := prepareTests(t)
	subsSrv := do.MustInvoke[*SubscribersSrv](i)

	subsSrv.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	prepareTestSubscriber(ctx, t, i, 1)

	subsSrv.now = func() time.Time { return time.Date(2025, 2, 2, 3, 4, 5, 0, time.UTC) }
	_, err := subsSrv.Find(ctx, 1)
	assert.NoErr(t, err)

	subs, err := subsSrv.List(ctx, nil)
	assert.NoErr(t, err)
	assert.Len(t, subs, 1)
	assert.Equal(t, subs[0].LastActive, time.Date(2025, 2, 2, 3, 4, 5, 0, time.UTC))
}

func TestUnsubscribe(t *testing.T) {
	ctx, i := prepareTests(t)
	subsSrv := do.MustInvoke[*SubscribersSrv](i)
	prepareTestSubscriber(ctx, t, i, 1)

	assert.NoErr(t, subsSrv.Unsubscribe(ctx, 1))
	assert.ErrSpec(t, subsSrv.Unsubscribe(ctx, 1), common.ErrUnknownSubscriber)

	_, err := subsSrv.Find(ctx, 1)
	assert.ErrSpec(t, err, common.ErrUnknownSubscriber)
}

func TestSetLevel(t *testing.T) {
	ctx, i := prepareTests(t)
	subsSrv := do.MustInvoke[*SubscribersSrv](i)
	prepareTestSubscriber(ctx, t, i, 1)

	tests := []struct {
		userID int64
		level  model.Level
		experr error
	}{
		{1, model.LevelB1, nil},
		{1, model.LevelAny, nil},
		{1, model.Level("X9"), common.ErrInvalidLevel},
		{2, model.LevelA2, common.ErrUnknownSubscriber},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt), func(t *testing.T) {
			sub, err := subsSrv.SetLevel(ctx, tt.userID, tt.level)
			if tt.experr != nil {
				assert.ErrSpec(t, err, tt.experr)

				return
			}

			assert.NoErr(t, err)
			assert.Equal(t, sub.Level, tt.level)

			sub, err = subsSrv.Find(ctx, tt.userID)
			assert.NoErr(t, err)
			assert.Equal(t, sub.Level, tt.level)
		})
	}
}

func TestListForLevel(t *testing.T) {
	ctx, i := prepareTests(t)
	subsSrv := do.MustInvoke[*SubscribersSrv](i)

	for id, level := range map[int64]model.Level{
		1: model.LevelAny,
		2: model.LevelA2,
		3: model.LevelB1,
		4: model.LevelB1,
	} {
		prepareTestSubscriber(ctx, t, i, id)

		_, err := subsSrv.SetLevel(ctx, id, level)
		assert.NoErr(t, err)
	}

	tests := []struct {
		level model.Level
		exp   []int64
	}{
		{model.LevelA2, []int64{1, 2}},
		{model.LevelB1, []int64{1, 3, 4}},
		{model.LevelC1, []int64{1}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt), func(t *testing.T) {
			subs, err := subsSrv.ListForLevel(ctx, tt.level)
			assert.NoErr(t, err)

			ids := make([]int64, 0, len(subs))
			for _, s := range subs {
				ids = append(ids, s.UserID)
			}

			assert.Equal(t, ids, tt.exp)
		})
	}

	all, err := subsSrv.List(ctx, nil)
	assert.NoErr(t, err)
	assert.Len(t, all, 4)
}

func TestMaintainDatabase(t *testing.T) {
	ctx, i := prepareTests(t)
	prepareTestSubscriber(ctx, t, i, 1)

	maintSrv := do.MustInvoke[*MaintenanceSrv](i)
	assert.NoErr(t, maintSrv.MaintainDatabase(ctx))
}
