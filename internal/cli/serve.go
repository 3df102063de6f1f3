package cli

//
// serve.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Merovius/systemd"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/bot"
	"gitlab.com/kabes/go-integwatch/internal/common"
	"gitlab.com/kabes/go-integwatch/internal/config"
	"gitlab.com/kabes/go-integwatch/internal/db"
	"gitlab.com/kabes/go-integwatch/internal/repository"
	"gitlab.com/kabes/go-integwatch/internal/server"
	"gitlab.com/kabes/go-integwatch/internal/service"
	"gitlab.com/kabes/go-integwatch/internal/telegram"
	"gitlab.com/kabes/go-integwatch/internal/watcher"
)

func watcherFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "base-url",
			Value:   config.DefaultBaseURL,
			Usage:   "Integratsioon self-service address",
			Sources: cli.EnvVars(envPrefix + "BASE_URL"),
			Config:  cli.StringConfig{TrimSpace: true},
		},
		&cli.StringFlag{
			Name:    "service-type",
			Value:   config.DefaultServiceType,
			Usage:   "service type code to watch",
			Sources: cli.EnvVars(envPrefix + "SERVICE_TYPE"),
			Config:  cli.StringConfig{TrimSpace: true},
		},
		&cli.StringFlag{
			Name:    "municipality",
			Usage:   "municipality code; empty for all",
			Sources: cli.EnvVars(envPrefix + "MUNICIPALITY"),
			Config:  cli.StringConfig{TrimSpace: true},
		},
		&cli.DurationFlag{
			Name:    "interval",
			Value:   config.DefaultPollInterval,
			Usage:   "interval between polling cycles",
			Aliases: []string{"i"},
			Sources: cli.EnvVars(envPrefix + "INTERVAL"),
		},
		&cli.DurationFlag{
			Name:    "request-timeout",
			Value:   config.DefaultRequestTimeout,
			Usage:   "timeout for one request to the site",
			Sources: cli.EnvVars(envPrefix + "REQUEST_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "user-agent",
			Usage:   "user agent sent to the site",
			Sources: cli.EnvVars(envPrefix + "USER_AGENT"),
			Config:  cli.StringConfig{TrimSpace: true},
		},
		&cli.StringFlag{
			Name:    "cookie",
			Usage:   "initial session cookie (JSESSIONID=...)",
			Sources: cli.EnvVars(envPrefix + "COOKIE"),
			Config:  cli.StringConfig{TrimSpace: true},
		},
	}
}

func watcherConfFromCmd(clicmd *cli.Command) (*config.WatcherConf, error) {
	conf := config.WatcherConf{
		BaseURL:        clicmd.String("base-url"),
		ServiceType:    clicmd.String("service-type"),
		Municipality:   clicmd.String("municipality"),
		Interval:       clicmd.Duration("interval"),
		RequestTimeout: clicmd.Duration("request-timeout"),
		UserAgent:      clicmd.String("user-agent"),
		DebugFlags:     config.NewDebugFLags(clicmd.String("debug")),
	}

	if cookie := clicmd.String("cookie"); cookie != "" {
		token, ok := watcher.ParseSessionMessage(cookie)
		if !ok {
			return nil, aerr.ErrValidation.WithUserMsg("cookie must contain JSESSIONID")
		}

		conf.Cookie = token
	}

	if err := conf.Validate(); err != nil {
		return nil, aerr.Wrapf(err, "watcher config validation failed")
	}

	return &conf, nil
}

func newServeCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "bot-token",
			Usage:    "telegram bot token",
			Required: true,
			Sources:  cli.EnvVars(envPrefix + "BOT_TOKEN"),
			Config:   cli.StringConfig{TrimSpace: true},
		},
		&cli.Int64Flag{
			Name:     "admin-id",
			Usage:    "telegram user id of bot administrator",
			Required: true,
			Sources:  cli.EnvVars(envPrefix + "ADMIN_ID"),
		},
		&cli.IntFlag{
			Name:    "bot-update-timeout",
			Value:   60, //nolint:mnd
			Usage:   "telegram long polling timeout in seconds",
			Sources: cli.EnvVars(envPrefix + "BOT_UPDATE_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "mgmt-address",
			Value:   "",
			Usage:   "listen address for management endpoints; empty disable management",
			Aliases: []string{"m"},
			Sources: cli.EnvVars(envPrefix + "MGMT_ADDRESS"),
			Config:  cli.StringConfig{TrimSpace: true},
		},
		&cli.StringFlag{
			Name:    "mgmt-access-list",
			Value:   "",
			Usage:   "list of ip or networks separated by ',' allowed to connected to mgmt endpoints.",
			Sources: cli.EnvVars(envPrefix + "MGMT_ACCESS_LIST"),
			Config:  cli.StringConfig{TrimSpace: true},
		},
		&cli.BoolFlag{
			Name:    "enable-metrics",
			Usage:   "enable prometheus metrics (/metrics endpoint)",
			Sources: cli.EnvVars(envPrefix + "METRICS"),
		},
	}

	return &cli.Command{
		Name:   "serve",
		Usage:  "start watching and serve telegram bot",
		Flags:  append(watcherFlags(), flags...),
		Action: wrap(serveCmd),
	}
}

func serveCmd(ctx context.Context, clicmd *cli.Command, rootInjector do.Injector) error {
	debugFlags := config.NewDebugFLags(clicmd.String("debug"))

	watcherConf, err := watcherConfFromCmd(clicmd)
	if err != nil {
		return err
	}

	botConf := config.BotConf{
		Token:         clicmd.String("bot-token"),
		AdminID:       clicmd.Int64("admin-id"),
		UpdateTimeout: clicmd.Int("bot-update-timeout"),
		DebugFlags:    debugFlags,
	}
	if err := botConf.Validate(); err != nil {
		return aerr.Wrapf(err, "bot config validation failed")
	}

	mgmtConf := config.MgmtConf{
		Address:       strings.TrimSpace(clicmd.String("mgmt-address")),
		AccessList:    clicmd.String("mgmt-access-list"),
		EnableMetrics: clicmd.Bool("enable-metrics"),
		DebugFlags:    debugFlags,
	}
	if err := mgmtConf.Validate(); err != nil {
		return aerr.Wrapf(err, "mgmt config validation failed")
	}

	injector := rootInjector.Scope("serve",
		watcher.Package,
		bot.Package,
		telegram.Package,
		server.Package,
	)

	do.ProvideValue(injector, watcherConf)
	do.ProvideValue(injector, &botConf)
	do.ProvideValue(injector, &mgmtConf)
	do.Provide(injector, func(i do.Injector) (watcher.SubscriberSource, error) {
		return do.MustInvoke[*service.SubscribersSrv](i), nil
	})

	if debugFlags.HasFlag(config.DebugDo) {
		enableDoDebug(ctx, injector)
	}

	s := Server{debugFlags: debugFlags}

	return s.start(ctx, injector, &mgmtConf)
}

type Server struct {
	debugFlags config.DebugFlags
}

func (s *Server) start(ctx context.Context, injector do.Injector, mgmtConf *config.MgmtConf) error {
	logger := log.Ctx(ctx)
	logger.Log().Msgf("Starting integwatch (%s)...", config.VersionString)
	logger.Debug().Msgf("Server: debug_flags=%q", s.debugFlags)

	database := do.MustInvoke[repository.Database](injector)
	if err := database.Migrate(ctx); err != nil {
		return aerr.Wrapf(err, "database migration failed")
	}

	s.startSystemdWatchdog(logger)

	db.RegisterMetrics(injector, s.debugFlags.HasFlag(config.DebugDBQueryMetrics))

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if mgmtConf.Enabled() {
		msrv := do.MustInvoke[*server.MgmtServer](injector)
		if err := msrv.Start(ctx); err != nil {
			return aerr.Wrapf(err, "failed start mgmt server")
		}
	}

	updates, err := do.Invoke[*telegram.Updates](injector)
	if err != nil {
		return aerr.Wrapf(err, "connect to telegram failed")
	}

	poller := do.MustInvoke[*watcher.Poller](injector)

	go updates.Run(ctx)
	go func() {
		poller.Run(ctx)
		// poller stopped by error or signal; stop whole service
		cancel()
	}()

	maintSrv := do.MustInvoke[*service.MaintenanceSrv](injector)
	go s.runBackgroundMaintenance(ctx, maintSrv)

	systemd.NotifyReady()           //nolint:errcheck
	systemd.NotifyStatus("running") //nolint:errcheck

	<-ctx.Done()

	poller.Stop()
	systemd.NotifyStatus("stopped") //nolint:errcheck

	return nil
}

func (*Server) startSystemdWatchdog(logger *zerolog.Logger) {
	if ok, dur, err := systemd.AutoWatchdog(); ok {
		logger.Info().Msgf("Systemd: autowatchdog started; duration=%s", dur)
	} else if err != nil {
		logger.Warn().Err(err).Msgf("Systemd: autowatchdog start error=%q", err)
	}
}

func (s *Server) runBackgroundMaintenance(ctx context.Context, maintSrv *service.MaintenanceSrv) {
	const startHour = 4

	logger := log.Ctx(ctx)
	logger.Info().Msg("Maintenance: start background maintenance task")

	eventlog := common.NewEventLog("db maintenance", "worker")
	defer eventlog.Close()

	ctx = common.ContextWithEventLog(ctx, eventlog)

	for {
		now := time.Now().UTC()
		nextRun := time.Date(now.Year(), now.Month(), now.Day(), startHour, 0, 0, 0, time.UTC)

		if nextRun.Before(now) {
			nextRun = nextRun.Add(24 * time.Hour) //nolint:mnd
		}

		wait := nextRun.Sub(now)

		logger.Debug().Msgf("Maintenance: next_run=%q wait=%q", nextRun, wait)
		eventlog.Printf("maintenance next_run=%q wait=%q", nextRun, wait)

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			taskid := xid.New()
			llog := logger.With().Str("task_id", taskid.String()).Logger() //nolint:nilaway
			eventlog.Printf("start maintenance task_id=%s", taskid.String())

			if err := maintSrv.MaintainDatabase(hlog.CtxWithID(ctx, taskid)); err != nil {
				llog.Error().Err(err).Msgf("Maintenance: run database maintenance task error=%q", err)
				eventlog.Errorf("maintenance error task_id=%s error=%q", taskid.String(), err)
			} else {
				eventlog.Printf("maintenance finished task_id=%s", taskid.String())
			}
		}
	}
}
