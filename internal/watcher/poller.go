package watcher

//
// poller.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/common"
	"gitlab.com/kabes/go-integwatch/internal/config"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

// Service types used by health check.
const (
	healthServiceType         = "Suhtluspraktika"
	healthFallbackServiceType = ""
)

// Poller periodically fetch site and notify subscribers about changes.
type Poller struct {
	conf     *config.WatcherConf
	session  *Session
	state    *State
	fetcher  *Fetcher
	differ   *Differ
	notifier *Notifier
}

func NewPoller(conf *config.WatcherConf, session *Session, state *State, fetcher *Fetcher,
	notifier *Notifier,
) *Poller {
	return &Poller{
		conf:     conf,
		session:  session,
		state:    state,
		fetcher:  fetcher,
		differ:   NewDiffer(state, conf.BaseURL),
		notifier: notifier,
	}
}

func NewPollerI(i do.Injector) (*Poller, error) {
	return NewPoller(
		do.MustInvoke[*config.WatcherConf](i),
		do.MustInvoke[*Session](i),
		do.MustInvoke[*State](i),
		do.MustInvoke[*Fetcher](i),
		do.MustInvoke[*Notifier](i),
	), nil
}

// Run polling loop until Stop is called or ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	logger := log.Ctx(ctx)
	logger.Info().Object("conf", p.conf).Msgf("Poller: start polling; interval=%s", p.conf.Interval)

	eventlog := common.NewEventLog("poller", "worker")
	defer eventlog.Close()

	ctx = common.ContextWithEventLog(ctx, eventlog)

	p.state.SetPolling(true)

	for p.state.Polling() {
		cycleID := xid.New()
		cctx := hlog.CtxWithID(ctx, cycleID)
		llog := logger.With().Str(common.LogKeyCycleID, cycleID.String()).Logger()
		cctx = llog.WithContext(cctx)

		eventlog.Printf("start cycle cycle_id=%s", cycleID.String())

		if err := p.RunCycle(cctx); err != nil {
			eventlog.Errorf("cycle error cycle_id=%s error=%q", cycleID.String(), err)
		} else {
			eventlog.Printf("cycle finished cycle_id=%s", cycleID.String())
		}

		if !p.state.Polling() {
			break
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("Poller: stopped by context")

			return
		case <-time.After(p.conf.Interval):
		}
	}

	logger.Info().Msg("Poller: stopped")
}

// Stop polling after current cycle.
func (p *Poller) Stop() {
	p.state.SetPolling(false)
}

// RequestDiagnostic request logging next fetched page.
func (p *Poller) RequestDiagnostic() {
	p.state.SetLogNeeded(true)
}

// RunCycle run one polling cycle. Faults, panics included, are reported to admin and returned.
func (p *Poller) RunCycle(ctx context.Context) error {
	logger := log.Ctx(ctx)
	metricCycles.Inc()

	err := guarded(ctx, func() error { return p.runCycle(ctx) })
	if err != nil {
		kind := FaultKind(err)
		metricFaults.WithLabelValues(kind).Inc()
		logger.Warn().Err(err).Msgf("Poller: cycle failed kind=%q error=%q", kind, err)

		text := AlertText(err)

		nerr := guarded(ctx, func() error {
			p.notifier.NotifyAdmin(ctx, text)

			return nil
		})
		if nerr != nil {
			logger.Error().Err(nerr).Msg("Poller: notify admin failed")
		}

		p.state.cycleFinished(time.Now(), kind)

		return err
	}

	p.state.cycleFinished(time.Now(), "")

	return nil
}

func (p *Poller) runCycle(ctx context.Context) error {
	logger := log.Ctx(ctx)

	if !p.session.Valid() {
		return ErrAuth.WithUserMsg("%s", needsCookieText(p.conf.BaseURL))
	}

	page, avail, err := p.fetchAndParse(ctx, Query{ServiceType: p.conf.ServiceType, Municipality: p.conf.Municipality})
	if err != nil {
		return err
	}

	var notifyErrs []error

	for _, level := range model.AllLevels {
		courses := avail.Get(level)
		metricOpenings.WithLabelValues(string(level)).Set(float64(len(courses)))

		text, notify := p.differ.Decide(level, courses)
		if !notify {
			continue
		}

		logger.Info().Str(common.LogKeyLevel, string(level)).
			Msgf("Poller: openings changed level=%q openings=%d", level, len(courses))

		delivered, err := p.notifier.NotifyLevel(ctx, level, model.NewHTMLMessage(text))
		if err != nil {
			logger.Error().Err(err).Msgf("Poller: notify level=%q error=%q", level, err)
			notifyErrs = append(notifyErrs, err)
		} else {
			logger.Debug().Msgf("Poller: notify level=%q delivered=%d", level, delivered)
		}
	}

	if p.state.LogNeeded() {
		logger.Info().Str("page", string(page)).Msg("Poller: diagnostic page dump")
		p.notifier.NotifyAdmin(ctx, fmt.Sprintf("Check the log for %d openings!", avail.Total()))
		p.state.SetLogNeeded(false)
	}

	// remaining levels are processed before failure is reported
	return errors.Join(notifyErrs...)
}

// HealthCheck query site for other services to check if fetching and parsing works.
// Return report for admin.
func (p *Poller) HealthCheck(ctx context.Context) (report string, err error) {
	err = guarded(ctx, func() error {
		report, err = p.healthCheck(ctx)

		return err
	})

	return report, err
}

func (p *Poller) healthCheck(ctx context.Context) (string, error) {
	_, avail, err := p.fetchAndParse(ctx, Query{ServiceType: healthServiceType})
	if err != nil {
		return "", err
	}

	if avail.Total() == 0 {
		_, avail, err = p.fetchAndParse(ctx, Query{ServiceType: healthFallbackServiceType})
		if err != nil {
			return "", err
		}
	}

	courses := avail.All()

	lines := model.Lines(courses)
	if lines == "" {
		lines = "nothing"
	}

	return fmt.Sprintf("There are %d openings:\n\n%s", len(courses), lines), nil
}

// Status return snapshot of watcher state.
func (p *Poller) Status() Status {
	status := p.state.snapshot()
	status.SessionSet = p.session.Valid()

	return status
}

func (p *Poller) fetchAndParse(ctx context.Context, query Query) (RawPage, model.Availability, error) {
	page, err := p.fetcher.Fetch(ctx, query)
	if err != nil {
		return "", model.Availability{}, err
	}

	avail, err := Parse(page)
	if err != nil {
		return page, avail, err
	}

	return page, avail, nil
}

// guarded call fun and convert panic into unclassified error.
func guarded(ctx context.Context, fun func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = aerr.Newf("panic: %v", r)
			log.Ctx(ctx).Error().Err(err).Bytes("stack", debug.Stack()).Msg("Poller: recovered from panic")
		}
	}()

	return fun()
}
