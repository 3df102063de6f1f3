//
// mgmt.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	dochi "github.com/samber/do/http/chi/v2"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/common"
	"gitlab.com/kabes/go-integwatch/internal/config"
	"gitlab.com/kabes/go-integwatch/internal/watcher"
)

// Watcher is state of the poller exposed by management endpoints.
type Watcher interface {
	Status() watcher.Status
	RequestDiagnostic()
}

type mgmtHandlers struct {
	watch   Watcher
	session *watcher.Session
}

func newRouter(injector do.Injector, cfg *config.MgmtConf, handlers *mgmtHandlers) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Heartbeat("/ping"))

	router.Get("/health", newHealthChecker(injector, cfg))

	router.Group(func(group chi.Router) {
		group.Use(hlog.RequestIDHandler(common.LogKeyReqID, "Request-Id"))

		if cfg.DebugFlags.HasFlag(config.DebugTrace) {
			group.Use(newTracingMiddleware(cfg))
		}

		group.Use(newLogMiddleware(cfg))
		group.Use(newRecoverMiddleware)
		group.Use(middleware.CleanPath)
		group.Use(newAuthMgmtMiddleware(cfg))
		group.Use(newPromMiddleware())

		group.With(middleware.NoCache).Get("/status", handlers.status)
		group.Post("/session", handlers.setSession)
		group.Post("/diagnostic", handlers.diagnostic)

		if cfg.DebugFlags.HasFlag(config.DebugDo) {
			dochi.Use(router, "/debug/do", injector)
		}

		if cfg.DebugFlags.HasFlag(config.DebugGo) {
			group.Mount("/debug", middleware.Profiler())
		}

		if cfg.DebugFlags.HasFlag(config.DebugTrace) {
			mountXTrace(group)
		}
	})

	if cfg.EnableMetrics {
		router.Method("GET", "/metrics", newMetricsHandler())
	}

	return router
}

//-------------------------------------------------------------

// newHealthChecker create new handler for /health endpoint. Accept only connection from allowed networks.
func newHealthChecker(injector do.Injector, cfg *config.MgmtConf) http.HandlerFunc {
	rootscope := injector.RootScope()

	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.AuthRequest(r) {
			w.WriteHeader(http.StatusForbidden)

			return
		}

		response := "ok"

		for service, err := range rootscope.HealthCheckWithContext(r.Context()) {
			if err != nil {
				log.Logger.Error().Err(err).Str("service", service).
					Msgf("HealthChecker: service=%q failed on healthcheck: %s", service, err)

				response = "error"
			}
		}

		if response != "ok" {
			render.Status(r, http.StatusServiceUnavailable)
		}

		render.PlainText(w, r, response)
	}
}

//-------------------------------------------------------------

func (m *mgmtHandlers) status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, m.watch.Status())
}

// setSession accept new session cookie in form field `token` or as raw request body.
func (m *mgmtHandlers) setSession(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	token := r.PostFormValue("token")
	if token == "" {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxSessionBodySize))
		if err != nil {
			logger.Warn().Err(err).Msg("MgmtServer: read session body failed")
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

			return
		}

		token = strings.TrimSpace(string(body))
	}

	token, ok := watcher.ParseSessionMessage(token)
	if !ok {
		logger.Info().Msg("MgmtServer: invalid session token")
		http.Error(w, "invalid session token", http.StatusBadRequest)

		return
	}

	m.session.SetToken(token)
	logger.Info().Msg("MgmtServer: session token updated")

	render.PlainText(w, r, "ok")
}

func (m *mgmtHandlers) diagnostic(w http.ResponseWriter, r *http.Request) {
	m.watch.RequestDiagnostic()
	hlog.FromRequest(r).Info().Msg("MgmtServer: diagnostic requested")

	render.Status(r, http.StatusAccepted)
	render.PlainText(w, r, "ok")
}
