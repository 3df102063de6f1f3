//go:build trace

package common

//
// tracing.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	xtrace "golang.org/x/net/trace"
)

const TracingAvailable = true

//-------------------------------------------------------------

type EventLog struct {
	events xtrace.EventLog
}

func NewEventLog(family, title string) *EventLog {
	return &EventLog{xtrace.NewEventLog(family, title)}
}

func (e *EventLog) Printf(format string, a ...any) {
	if e != nil && e.events != nil {
		e.events.Printf(format, a...)
	}
}

func (e *EventLog) Errorf(format string, a ...any) {
	if e != nil && e.events != nil {
		e.events.Errorf(format, a...)
	}
}

func (e *EventLog) Close() {
	if e != nil && e.events != nil {
		e.events.Finish()
	}
}

//-------------------------------------------------------------

//nolint:gochecknoglobals
var ctxEventLogKey = any("ctxEventLogKey")

// ContextEventLog return event log from context.
func ContextEventLog(ctx context.Context) *EventLog {
	value, ok := ctx.Value(ctxEventLogKey).(*EventLog)
	if ok {
		return value
	}

	return nil
}

// ContextWithEventLog create context with event log.
func ContextWithEventLog(ctx context.Context, eventlog *EventLog) context.Context {
	return context.WithValue(ctx, ctxEventLogKey, eventlog)
}

func EventLogPrintf(ctx context.Context, format string, a ...any) {
	ContextEventLog(ctx).Printf(format, a...)
}

func EventLogErrorf(ctx context.Context, format string, a ...any) {
	ContextEventLog(ctx).Errorf(format, a...)
}
