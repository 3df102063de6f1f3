package server

//
// mgmt_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/assert"
	"gitlab.com/kabes/go-integwatch/internal/config"
	"gitlab.com/kabes/go-integwatch/internal/model"
	"gitlab.com/kabes/go-integwatch/internal/watcher"
)

type fakeWatcher struct {
	status     watcher.Status
	diagnostic bool
}

func (f *fakeWatcher) Status() watcher.Status {
	return f.status
}

func (f *fakeWatcher) RequestDiagnostic() {
	f.diagnostic = true
}

func prepareRouter(t *testing.T, cfg *config.MgmtConf) (http.Handler, *fakeWatcher, *watcher.Session) {
	t.Helper()

	assert.NoErr(t, cfg.Validate())

	fw := &fakeWatcher{
		status: watcher.Status{
			Polling:  true,
			Openings: map[model.Level]int{model.LevelA2: 0, model.LevelB1: 2},
		},
	}
	session := watcher.NewSession("")
	handlers := &mgmtHandlers{watch: fw, session: session}

	return newRouter(do.New(), cfg, handlers), fw, session
}

func doRequest(handler http.Handler, req *http.Request, remote string) *httptest.ResponseRecorder {
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestMgmtAccess(t *testing.T) {
	cases := []struct {
		accessList string
		remote     string
		want       int
	}{
		{"", "127.0.0.1:4000", http.StatusOK},
		{"", "[::1]:4000", http.StatusOK},
		{"", "192.168.1.10:4000", http.StatusOK},
		{"", "192.0.2.1:4000", http.StatusForbidden},
		{"10.0.0.0/8", "10.1.2.3:4000", http.StatusOK},
		{"10.0.0.0/8", "192.168.1.10:4000", http.StatusForbidden},
		{"10.0.0.0/8, 192.0.2.1", "192.0.2.1:4000", http.StatusOK},
		{"10.0.0.0/8", "127.0.0.1:4000", http.StatusOK},
	}

	for _, tt := range cases {
		t.Run(fmt.Sprintf("%v", tt), func(t *testing.T) {
			router, _, _ := prepareRouter(t, &config.MgmtConf{Address: ":0", AccessList: tt.accessList})

			rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/status", nil), tt.remote)
			assert.Equal(t, rec.Code, tt.want)

			rec = doRequest(router, httptest.NewRequest(http.MethodGet, "/health", nil), tt.remote)
			assert.Equal(t, rec.Code, tt.want)
		})
	}
}

func TestMgmtPing(t *testing.T) {
	router, _, _ := prepareRouter(t, &config.MgmtConf{Address: ":0"})

	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/ping", nil), "192.0.2.1:4000")
	assert.Equal(t, rec.Code, http.StatusOK)
}

func TestMgmtHealth(t *testing.T) {
	router, _, _ := prepareRouter(t, &config.MgmtConf{Address: ":0"})

	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/health", nil), "127.0.0.1:4000")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, rec.Body.String(), "ok")
}

func TestMgmtStatus(t *testing.T) {
	router, _, _ := prepareRouter(t, &config.MgmtConf{Address: ":0"})

	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/status", nil), "127.0.0.1:4000")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var status watcher.Status

	assert.NoErr(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Polling)
	assert.Equal(t, status.SessionSet, false)
	assert.Equal(t, status.Openings[model.LevelB1], 2)
	assert.Equal(t, status.Openings[model.LevelA2], 0)
}

func TestMgmtSetSessionForm(t *testing.T) {
	router, _, session := prepareRouter(t, &config.MgmtConf{Address: ":0"})

	form := url.Values{"token": []string{"Cookie: JSESSIONID=abc123"}}
	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := doRequest(router, req, "127.0.0.1:4000")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, session.Token(), "JSESSIONID=abc123")
}

func TestMgmtSetSessionBody(t *testing.T) {
	router, _, session := prepareRouter(t, &config.MgmtConf{Address: ":0"})

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader("JSESSIONID=xyz; other=1\n"))
	req.Header.Set("Content-Type", "text/plain")

	rec := doRequest(router, req, "127.0.0.1:4000")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, session.Token(), "JSESSIONID=xyz; other=1")
}

func TestMgmtSetSessionInvalid(t *testing.T) {
	router, _, session := prepareRouter(t, &config.MgmtConf{Address: ":0"})
	session.SetToken("JSESSIONID=old")

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader("something else"))
	req.Header.Set("Content-Type", "text/plain")

	rec := doRequest(router, req, "127.0.0.1:4000")
	assert.Equal(t, rec.Code, http.StatusBadRequest)
	assert.Equal(t, session.Token(), "JSESSIONID=old")
}

func TestMgmtSetSessionDenied(t *testing.T) {
	router, _, session := prepareRouter(t, &config.MgmtConf{Address: ":0"})

	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader("JSESSIONID=xyz"))
	req.Header.Set("Content-Type", "text/plain")

	rec := doRequest(router, req, "192.0.2.1:4000")
	assert.Equal(t, rec.Code, http.StatusForbidden)
	assert.Equal(t, session.Token(), "")
}

func TestMgmtDiagnostic(t *testing.T) {
	router, fw, _ := prepareRouter(t, &config.MgmtConf{Address: ":0"})

	rec := doRequest(router, httptest.NewRequest(http.MethodPost, "/diagnostic", nil), "127.0.0.1:4000")
	assert.Equal(t, rec.Code, http.StatusAccepted)
	assert.True(t, fw.diagnostic)
}

func TestMgmtMetrics(t *testing.T) {
	router, _, _ := prepareRouter(t, &config.MgmtConf{Address: ":0"})

	rec := doRequest(router, httptest.NewRequest(http.MethodGet, "/metrics", nil), "127.0.0.1:4000")
	assert.Equal(t, rec.Code, http.StatusNotFound)

	router, _, _ = prepareRouter(t, &config.MgmtConf{Address: ":0", EnableMetrics: true})

	rec = doRequest(router, httptest.NewRequest(http.MethodGet, "/metrics", nil), "127.0.0.1:4000")
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
