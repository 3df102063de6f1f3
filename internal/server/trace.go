//go:build trace

package server

//
// trace.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"
	"runtime/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/kabes/go-integwatch/internal/config"
	xtrace "golang.org/x/net/trace"
)

func newTracingMiddleware(cfg *config.MgmtConf) func(http.Handler) http.Handler {
	xtrace.AuthRequest = func(req *http.Request) (any, bool) {
		allowed := cfg.AuthRequest(req)

		return allowed, allowed
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if shouldSkipLogRequest(request) {
				next.ServeHTTP(writer, request)

				return
			}

			ctx := request.Context()
			reqid := "?"

			if id, ok := hlog.IDFromCtx(ctx); ok {
				reqid = id.String()
				pprof.SetGoroutineLabels(pprof.WithLabels(ctx, pprof.Labels("reqid", reqid)))
			}

			tr := xtrace.New("mgmt", request.URL.Path+" req_id="+reqid)
			defer tr.Finish()

			next.ServeHTTP(writer, request.WithContext(xtrace.NewContext(ctx, tr)))
		})
	}
}

// mountXTrace expose net/trace pages; poller cycles are visible in /debug/events.
func mountXTrace(group chi.Router) {
	group.Get("/debug/requests", xtrace.Traces)
	group.Get("/debug/events", xtrace.Events)
}
