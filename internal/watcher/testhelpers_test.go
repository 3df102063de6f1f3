package watcher

//
// testhelpers_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-integwatch/internal/config"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

const testAdminID = int64(999)

type sentMessage struct {
	chatID int64
	msg    model.Message
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	failFor map[int64]bool
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, msg model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFor[chatID] {
		return errors.New("blocked by user")
	}

	f.sent = append(f.sent, sentMessage{chatID, msg})

	return nil
}

// take return sent messages and reset list.
func (f *fakeSender) take() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	sent := f.sent
	f.sent = nil

	return sent
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent)
}

type fakeSubscribers []model.Subscriber

func (f fakeSubscribers) ListForLevel(_ context.Context, level model.Level) ([]model.Subscriber, error) {
	var res []model.Subscriber

	for _, s := range f {
		if s.Wants(level) {
			res = append(res, s)
		}
	}

	return res, nil
}

type panicSender struct{}

func (panicSender) SendMessage(context.Context, int64, model.Message) error {
	panic("boom in transport")
}

type failingSubscribers struct {
	err   error
	panic bool
}

func (f failingSubscribers) ListForLevel(context.Context, model.Level) ([]model.Subscriber, error) {
	if f.panic {
		panic(f.err)
	}

	return nil, f.err
}

//-------------------------------------------------------------

func testContext(t *testing.T) context.Context {
	t.Helper()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	return log.Logger.WithContext(context.Background())
}

func testConf(baseURL string) *config.WatcherConf {
	return &config.WatcherConf{
		BaseURL:        baseURL,
		ServiceType:    config.DefaultServiceType,
		Municipality:   "0784",
		Interval:       10 * time.Millisecond,
		RequestTimeout: 5 * time.Second,
		UserAgent:      "integwatch-test",
	}
}

// startSite start fake site; handler get parsed form values.
func startSite(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, string) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/service/search" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv, srv.URL + "/"
}

//-------------------------------------------------------------

const noResultsPage = `<html><head><title>Teenused</title></head><body>
<div class="alert alert-info" role="alert">No results found</div>
</body></html>`

const loginPage = `<html><head><title>Sisenemine</title></head><body><form></form></body></html>`

// searchPage build result page; each row is time, service, place, free.
func searchPage(rows ...[4]string) string {
	var b strings.Builder

	b.WriteString(`<html><head><title>Teenused</title></head><body>
<table class="table table-striped">
<thead><tr><th>Aeg</th><th>Teenus</th><th>Koht</th><th>Vabu kohti</th></tr></thead>
<tbody>
`)

	for _, row := range rows {
		b.WriteString("<tr>")

		for _, cell := range row {
			b.WriteString("<td>\n  " + cell + "\n</td>")
		}

		b.WriteString("</tr>\n")
	}

	b.WriteString("</tbody></table></body></html>")

	return b.String()
}
