//go:build !trace

package common

//
// tracing_disabled.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
)

const TracingAvailable = false

type EventLog struct{}

func NewEventLog(family, title string) *EventLog {
	return &EventLog{}
}

func (e *EventLog) Printf(format string, a ...any) {}

func (e *EventLog) Errorf(format string, a ...any) {}

func (e *EventLog) Close() {}

func ContextEventLog(ctx context.Context) *EventLog {
	return nil
}

func ContextWithEventLog(ctx context.Context, eventlog *EventLog) context.Context {
	return ctx
}

func EventLogPrintf(ctx context.Context, format string, a ...any) {}

func EventLogErrorf(ctx context.Context, format string, a ...any) {}
