package common

// appctx.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.

import (
	"context"
)

//nolint:gochecknoglobals
var ctxUserIDKey = any("ctxUserIDKey")

// ContextUserID return telegram user id from context.
func ContextUserID(ctx context.Context) int64 {
	id, ok := ctx.Value(ctxUserIDKey).(int64)
	if ok {
		return id
	}

	return 0
}

// ContextWithUserID create new context with telegram user id.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, userID)
}
