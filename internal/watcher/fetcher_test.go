package watcher

//
// fetcher_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"gitlab.com/kabes/go-integwatch/internal/assert"
)

func TestFetcherRequest(t *testing.T) {
	ctx := testContext(t)

	var (
		form   url.Values
		cookie string
		agent  string
	)

	_, base := startSite(t, func(w http.ResponseWriter, r *http.Request) {
		form = r.PostForm
		cookie = r.Header.Get("Cookie")
		agent = r.Header.Get("User-Agent")

		fmt.Fprint(w, noResultsPage)
	})

	fetcher := NewFetcher(testConf(base), NewSession("JSESSIONID=abc"))

	page, err := fetcher.Fetch(ctx, Query{ServiceType: "Keelekursus", Municipality: "0784"})
	assert.NoErr(t, err)
	assert.Equal(t, string(page), noResultsPage)

	assert.Equal(t, cookie, "JSESSIONID=abc")
	assert.Equal(t, agent, "integwatch-test")
	assert.Equal(t, form.Get("serviceTypeCode"), "Keelekursus")
	assert.Equal(t, form.Get("municipalityCode"), "0784")

	for _, key := range []string{"proficiencyLevelCode", "serviceEventStartDateFrom", "serviceEventStartDateUntil"} {
		assert.True(t, form.Has(key))
		assert.Equal(t, form.Get(key), "")
	}
}

func TestFetcherStatusError(t *testing.T) {
	ctx := testContext(t)
	requests := 0

	_, base := startSite(t, func(w http.ResponseWriter, _ *http.Request) {
		requests++

		w.WriteHeader(http.StatusServiceUnavailable)
	})

	fetcher := NewFetcher(testConf(base), NewSession("JSESSIONID=abc"))

	_, err := fetcher.Fetch(ctx, Query{ServiceType: "Keelekursus"})
	assert.ErrSpec(t, err, ErrTransport)
	assert.Equal(t, FaultKind(err), "transport")
	assert.Equal(t, AlertText(err), "Got error code 503.")
	// no retry
	assert.Equal(t, requests, 1)
}

func TestFetcherLoginPage(t *testing.T) {
	ctx := testContext(t)

	_, base := startSite(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, loginPage)
	})

	session := NewSession("JSESSIONID=old")
	fetcher := NewFetcher(testConf(base), session)

	_, err := fetcher.Fetch(ctx, Query{ServiceType: "Keelekursus"})
	assert.ErrSpec(t, err, ErrAuth)
	assert.Equal(t, AlertText(err), "Needs new cookie:\n"+base)
	assert.Equal(t, session.Token(), "")
}

func TestFetcherConnectionError(t *testing.T) {
	ctx := testContext(t)

	srv, base := startSite(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv.Close()

	session := NewSession("JSESSIONID=abc")
	fetcher := NewFetcher(testConf(base), session)

	_, err := fetcher.Fetch(ctx, Query{ServiceType: "Keelekursus"})
	assert.Err(t, err)
	assert.Equal(t, FaultKind(err), "unclassified")
	assert.Contains(t, AlertText(err), "Exception happened: ")
	// session is kept
	assert.Equal(t, session.Token(), "JSESSIONID=abc")
}
