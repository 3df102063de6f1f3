//
// server.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/config"
	"gitlab.com/kabes/go-integwatch/internal/watcher"
)

const (
	defaultReadTimeout    = 60 * time.Second
	defaultWriteTimeout   = 60 * time.Second
	defaultMaxHeaderBytes = 1 << 20
	maxSessionBodySize    = 16 << 10
)

// Package provide management server. Require *config.MgmtConf and watcher package.
//
//nolint:gochecknoglobals
var Package = do.Package(
	do.Lazy(NewMgmtI),
)

// MgmtServer serve health, metrics, status and admin endpoints.
type MgmtServer struct {
	router chi.Router

	cfg *config.MgmtConf
	s   *http.Server
}

func NewMgmtI(injector do.Injector) (*MgmtServer, error) {
	cfg := do.MustInvoke[*config.MgmtConf](injector)
	handlers := &mgmtHandlers{
		watch:   do.MustInvoke[*watcher.Poller](injector),
		session: do.MustInvoke[*watcher.Session](injector),
	}

	router := newRouter(injector, cfg, handlers)

	return &MgmtServer{
		router: router,
		cfg:    cfg,
		s: &http.Server{
			Addr:           cfg.Address,
			Handler:        router,
			ReadTimeout:    defaultReadTimeout,
			WriteTimeout:   defaultWriteTimeout,
			MaxHeaderBytes: defaultMaxHeaderBytes,
		},
	}, nil
}

func (s *MgmtServer) Start(ctx context.Context) error {
	logger := log.Logger

	if s.cfg.DebugFlags.HasFlag(config.DebugRouter) {
		logRoutes(ctx, "MgmtServer", s.router)
	}

	listener, err := newListener(ctx, s.cfg.Address)
	if err != nil {
		return aerr.Wrapf(err, "start listen error")
	}

	logger.Log().Msgf("MgmtServer: listen on address=%s metrics=%v", s.cfg.Address, s.cfg.EnableMetrics)

	go func() {
		if err := s.s.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log().Err(err).Msgf("MgmtServer: serve error: %s", err)
		}
	}()

	return nil
}

func (s *MgmtServer) Shutdown(ctx context.Context) error {
	logger := log.Ctx(ctx)
	logger.Debug().Msg("MgmtServer: stopping...")

	if err := s.s.Shutdown(ctx); err != nil {
		return aerr.Wrapf(err, "shutdown server failed")
	}

	logger.Debug().Msg("MgmtServer: stopped")

	return nil
}

//-------------------------------------------------------------

func logRoutes(ctx context.Context, name string, r chi.Routes) {
	logger := log.Ctx(ctx)

	walkFunc := func(method, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		_ = handler
		_ = middlewares
		route = strings.ReplaceAll(route, "/*/", "/")
		logger.Debug().Msgf("%s: ROUTE: %s %s", name, method, route)

		return nil
	}

	if err := chi.Walk(r, walkFunc); err != nil {
		logger.Error().Err(err).Msgf("MgmtServer: routers walk error: %s", err)
	}
}

func newListener(ctx context.Context, address string) (net.Listener, error) {
	lc := net.ListenConfig{}

	l, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, aerr.Wrapf(err, "listen failed").WithMeta("address", address)
	}

	return l, nil
}
