package watcher

//
// poller_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"gitlab.com/kabes/go-integwatch/internal/assert"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

type fakeSite struct {
	mu    sync.Mutex
	pages map[string]string
}

func (f *fakeSite) set(serviceType, page string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pages[serviceType] = page
}

func (f *fakeSite) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	page, ok := f.pages[r.PostForm.Get("serviceTypeCode")]
	f.mu.Unlock()

	if !ok {
		page = noResultsPage
	}

	fmt.Fprint(w, page)
}

func preparePoller(t *testing.T, token string) (*Poller, *fakeSender, *fakeSite, string) {
	t.Helper()

	site := &fakeSite{pages: map[string]string{}}
	_, base := startSite(t, site.handle)

	conf := testConf(base)
	session := NewSession(token)
	state := NewState()
	sender := &fakeSender{}
	subs := fakeSubscribers{
		{UserID: 1, Level: model.LevelAny},
		{UserID: 2, Level: model.LevelA2},
		{UserID: 3, Level: model.LevelB1},
	}
	notifier := NewNotifier(sender, subs, state, testAdminID)
	poller := NewPoller(conf, session, state, NewFetcher(conf, session), notifier)

	return poller, sender, site, base
}

func TestPollerCycleNotifySubscribers(t *testing.T) {
	ctx := testContext(t)
	poller, sender, site, base := preparePoller(t, "JSESSIONID=1")

	site.set("Keelekursus", searchPage(
		[4]string{"01.03.2025 10:00", "Eesti keele kursus B1", "Tallinn", "3"},
	))

	assert.NoErr(t, poller.RunCycle(ctx))

	sent := sender.take()
	assert.Len(t, sent, 2)
	assert.Equal(t, sent[0].chatID, int64(1))
	assert.Equal(t, sent[1].chatID, int64(3))

	exp := fmt.Sprintf(`<a href="%s">Quick!</a> There is an opening for level B1:`, base) +
		"\n\n* 01.03.2025 10:00 at Tallinn (free 3)"
	assert.Equal(t, sent[0].msg, model.NewHTMLMessage(exp))

	// nothing changed
	assert.NoErr(t, poller.RunCycle(ctx))
	assert.Len(t, sender.take(), 0)

	// opening gone
	site.set("Keelekursus", noResultsPage)
	assert.NoErr(t, poller.RunCycle(ctx))

	sent = sender.take()
	assert.Len(t, sent, 2)
	assert.Equal(t, sent[1].msg.Text, "No more openings for level B1.")

	status := poller.Status()
	assert.True(t, status.SessionSet)
	assert.True(t, status.Polling)
	assert.Equal(t, status.Openings[model.LevelB1], 0)
	assert.Len(t, status.Openings, 4)
}

func TestPollerCycleNoSession(t *testing.T) {
	ctx := testContext(t)
	poller, sender, _, base := preparePoller(t, "")

	err := poller.RunCycle(ctx)
	assert.ErrSpec(t, err, ErrAuth)

	// repeated alert is not sent twice
	assert.Err(t, poller.RunCycle(ctx))

	sent := sender.take()
	assert.Len(t, sent, 1)
	assert.Equal(t, sent[0].chatID, testAdminID)
	assert.Equal(t, sent[0].msg.Text, "Needs new cookie:\n"+base)
	assert.Equal(t, poller.Status().LastFault, "auth")
}

func TestPollerCycleSessionExpired(t *testing.T) {
	ctx := testContext(t)
	poller, sender, site, base := preparePoller(t, "JSESSIONID=1")
	site.set("Keelekursus", loginPage)

	assert.ErrSpec(t, poller.RunCycle(ctx), ErrAuth)
	assert.Equal(t, poller.Status().SessionSet, false)

	// next cycle do not query site and alert is deduplicated
	assert.ErrSpec(t, poller.RunCycle(ctx), ErrAuth)

	sent := sender.take()
	assert.Len(t, sent, 1)
	assert.Equal(t, sent[0].msg.Text, "Needs new cookie:\n"+base)
}

func TestPollerCycleStructureFault(t *testing.T) {
	ctx := testContext(t)
	poller, sender, site, _ := preparePoller(t, "JSESSIONID=1")
	site.set("Keelekursus", searchPage(
		[4]string{"01.03.2025 10:00", "Eesti keele kursus B1", "Tallinn", "3"},
		[4]string{"02.03.2025 10:00", "Vestlusklubi", "Tartu", "3"},
	))

	assert.ErrSpec(t, poller.RunCycle(ctx), ErrStructure)

	sent := sender.take()
	assert.Len(t, sent, 1)
	assert.Equal(t, sent[0].chatID, testAdminID)
	assert.Equal(t, sent[0].msg.Text, `Cannot parse service for level: "Vestlusklubi"`)
	// partial results are discarded
	assert.Equal(t, len(poller.state.Courses(model.LevelB1)), 0)
}

func TestPollerDiagnostic(t *testing.T) {
	ctx := testContext(t)
	poller, sender, site, _ := preparePoller(t, "JSESSIONID=1")
	site.set("Keelekursus", searchPage(
		[4]string{"01.03.2025 10:00", "Eesti keele kursus B1", "Tallinn", "3"},
		[4]string{"02.03.2025 10:00", "Eesti keele kursus A2", "Tartu", "3"},
		[4]string{"03.03.2025 10:00", "Eesti keele kursus B2", "Narva", "3"},
	))

	assert.NoErr(t, poller.RunCycle(ctx))
	sender.take()

	poller.RequestDiagnostic()
	assert.True(t, poller.Status().DiagnosticPending)
	assert.NoErr(t, poller.RunCycle(ctx))

	sent := sender.take()
	assert.Len(t, sent, 1)
	assert.Equal(t, sent[0].chatID, testAdminID)
	assert.Equal(t, sent[0].msg.Text, "Check the log for 3 openings!")
	assert.Equal(t, poller.Status().DiagnosticPending, false)
}

func TestPollerHealthCheck(t *testing.T) {
	ctx := testContext(t)
	poller, _, site, _ := preparePoller(t, "JSESSIONID=1")

	report, err := poller.HealthCheck(ctx)
	assert.NoErr(t, err)
	assert.Equal(t, report, "There are 0 openings:\n\nnothing")

	// fallback to all services
	site.set("", searchPage(
		[4]string{"t1", "Kursus A2", "p1", "1"},
		[4]string{"t2", "Kursus B1", "p2", "2"},
	))

	report, err = poller.HealthCheck(ctx)
	assert.NoErr(t, err)
	assert.Equal(t, report, "There are 2 openings:\n\n* t1 at p1 (free 1)\n* t2 at p2 (free 2)")

	site.set("Suhtluspraktika", searchPage([4]string{"t3", "Praktika C1", "p3", "3"}))

	report, err = poller.HealthCheck(ctx)
	assert.NoErr(t, err)
	assert.Equal(t, report, "There are 1 openings:\n\n* t3 at p3 (free 3)")

	site.set("Suhtluspraktika", loginPage)

	_, err = poller.HealthCheck(ctx)
	assert.ErrSpec(t, err, ErrAuth)
}

func TestPollerRunStop(t *testing.T) {
	ctx := testContext(t)
	poller, _, site, _ := preparePoller(t, "JSESSIONID=1")

	var requests atomic.Int32

	site.set("Keelekursus", noResultsPage)
	poller.fetcher.client.OnAfterResponse(func(_ *resty.Client, _ *resty.Response) error {
		if requests.Add(1) == 2 {
			poller.Stop()
		}

		return nil
	})

	done := make(chan struct{})

	go func() {
		poller.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller not stopped")
	}

	assert.Equal(t, requests.Load(), int32(2))
	assert.Equal(t, poller.Status().Polling, false)
}

func TestPollerRunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	poller, _, _, _ := preparePoller(t, "")
	poller.conf.Interval = time.Hour

	done := make(chan struct{})

	go func() {
		poller.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller not stopped")
	}
}

func TestPollerRunStopDuringCycle(t *testing.T) {
	ctx := testContext(t)
	poller, _, site, _ := preparePoller(t, "JSESSIONID=1")
	poller.conf.Interval = 2 * time.Second

	site.set("Keelekursus", noResultsPage)
	poller.fetcher.client.OnAfterResponse(func(_ *resty.Client, _ *resty.Response) error {
		poller.Stop()

		return nil
	})

	done := make(chan struct{})
	start := time.Now()

	go func() {
		poller.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller not stopped")
	}

	// loop must not sleep after last cycle
	assert.True(t, time.Since(start) < time.Second)
	assert.Equal(t, poller.Status().Polling, false)
}

func TestPollerCyclePanicInSender(t *testing.T) {
	ctx := testContext(t)
	poller, _, _, _ := preparePoller(t, "")
	poller.notifier.sender = panicSender{}

	var err error

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic escaped RunCycle: %v", r)
			}
		}()

		err = poller.RunCycle(ctx)
	}()

	assert.ErrSpec(t, err, ErrAuth)
	assert.Equal(t, poller.Status().LastFault, "auth")
}

func TestPollerCyclePanicInCycle(t *testing.T) {
	ctx := testContext(t)
	poller, sender, site, _ := preparePoller(t, "JSESSIONID=1")
	poller.notifier.subscribers = failingSubscribers{err: errors.New("registry gone"), panic: true}

	site.set("Keelekursus", searchPage(
		[4]string{"01.03.2025 10:00", "Eesti keele kursus B1", "Tallinn", "3"},
	))

	err := poller.RunCycle(ctx)
	assert.Err(t, err)
	assert.Equal(t, FaultKind(err), "unclassified")

	sent := sender.take()
	assert.Len(t, sent, 1)
	assert.Equal(t, sent[0].chatID, testAdminID)
	assert.Equal(t, sent[0].msg.Text, "Exception happened: panic: registry gone")
	assert.Equal(t, poller.Status().LastFault, "unclassified")
}

func TestPollerCycleNotifyLevelFailed(t *testing.T) {
	ctx := testContext(t)
	poller, sender, site, _ := preparePoller(t, "JSESSIONID=1")
	poller.notifier.subscribers = failingSubscribers{err: errors.New("database is locked")}

	site.set("Keelekursus", searchPage(
		[4]string{"01.03.2025 10:00", "Eesti keele kursus B1", "Tallinn", "3"},
		[4]string{"02.03.2025 10:00", "Eesti keele kursus A2", "Tartu", "1"},
	))

	err := poller.RunCycle(ctx)
	assert.Err(t, err)

	// all levels are processed before error is reported
	assert.Equal(t, len(poller.state.Courses(model.LevelA2)), 1)
	assert.Equal(t, len(poller.state.Courses(model.LevelB1)), 1)

	sent := sender.take()
	assert.Len(t, sent, 1)
	assert.Equal(t, sent[0].chatID, testAdminID)
	assert.True(t, strings.HasPrefix(sent[0].msg.Text, "Exception happened: list subscribers failed: database is locked"))
}

func TestPollerHealthCheckPageOrder(t *testing.T) {
	ctx := testContext(t)
	poller, _, site, _ := preparePoller(t, "JSESSIONID=1")

	site.set("Suhtluspraktika", searchPage(
		[4]string{"t1", "Praktika C1", "p1", "1"},
		[4]string{"t2", "Praktika A2", "p2", "2"},
		[4]string{"t3", "Praktika C1", "p3", "3"},
	))

	report, err := poller.HealthCheck(ctx)
	assert.NoErr(t, err)
	assert.Equal(t, report,
		"There are 3 openings:\n\n* t1 at p1 (free 1)\n* t3 at p3 (free 3)\n* t2 at p2 (free 2)")
}

func TestPollerHealthCheckPanic(t *testing.T) {
	ctx := testContext(t)
	poller, _, _, _ := preparePoller(t, "JSESSIONID=1")
	poller.fetcher.client.OnBeforeRequest(func(_ *resty.Client, _ *resty.Request) error {
		panic("broken transport")
	})

	report, err := poller.HealthCheck(ctx)
	assert.Err(t, err)
	assert.Equal(t, report, "")
	assert.Equal(t, AlertText(err), "Exception happened: panic: broken transport")
}
