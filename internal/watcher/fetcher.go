package watcher

//
// fetcher.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/config"
)

// RawPage is body of search result page.
type RawPage string

// Query select services to search.
type Query struct {
	ServiceType  string
	Municipality string
}

const loginPageMarker = "<title>Sisenemine</title>"

// Fetcher query site search endpoint.
type Fetcher struct {
	client    *resty.Client
	session   *Session
	baseURL   string
	searchURL string
	logBody   bool
}

func NewFetcher(conf *config.WatcherConf, session *Session) *Fetcher {
	fetcher := &Fetcher{
		client: resty.New().
			SetTimeout(conf.RequestTimeout).
			SetHeader("User-Agent", conf.UserAgent),
		session:   session,
		baseURL:   conf.BaseURL,
		searchURL: conf.SearchURL(),
		logBody:   conf.DebugFlags.HasFlag(config.DebugMsgBody),
	}

	fetcher.client.OnBeforeRequest(fetcher.onBeforeRequest)
	fetcher.client.OnAfterResponse(fetcher.onAfterResponse)
	fetcher.client.OnError(fetcher.onError)

	return fetcher
}

func NewFetcherI(i do.Injector) (*Fetcher, error) {
	return NewFetcher(
		do.MustInvoke[*config.WatcherConf](i),
		do.MustInvoke[*Session](i),
	), nil
}

// Fetch send one search request. No retry.
func (f *Fetcher) Fetch(ctx context.Context, query Query) (RawPage, error) {
	logger := log.Ctx(ctx)
	logger.Debug().Msgf("Fetcher: search service_type=%q municipality=%q", query.ServiceType, query.Municipality)

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Cookie", f.session.Token()).
		SetFormData(map[string]string{
			"serviceTypeCode":            query.ServiceType,
			"proficiencyLevelCode":       "",
			"municipalityCode":           query.Municipality,
			"serviceEventStartDateFrom":  "",
			"serviceEventStartDateUntil": "",
		}).
		Post(f.searchURL)
	if err != nil {
		return "", aerr.Wrap(err)
	}

	if code := resp.StatusCode(); code != http.StatusOK {
		return "", ErrTransport.WithUserMsg("Got error code %d.", code).WithMeta("status_code", code)
	}

	body := resp.String()
	if strings.Contains(body, loginPageMarker) {
		logger.Info().Msg("Fetcher: session expired")
		f.session.Clear()

		return "", ErrAuth.WithUserMsg("%s", needsCookieText(f.baseURL))
	}

	return RawPage(body), nil
}

func (f *Fetcher) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	if f.logBody {
		log.Ctx(req.Context()).Debug().Interface("form", req.FormData).Msgf("Fetcher: request url=%q", req.URL)
	}

	return nil
}

func (f *Fetcher) onAfterResponse(_ *resty.Client, resp *resty.Response) error {
	metricFetchRequests.WithLabelValues(strconv.Itoa(resp.StatusCode())).Inc()
	metricFetchDuration.Observe(resp.Time().Seconds())

	logger := log.Ctx(resp.Request.Context())
	logger.Debug().Msgf("Fetcher: response status=%d time=%s size=%d", resp.StatusCode(), resp.Time(), resp.Size())

	if f.logBody {
		logger.Debug().Str("body", resp.String()).Msg("Fetcher: response body")
	}

	return nil
}

func (f *Fetcher) onError(req *resty.Request, err error) {
	metricFetchRequests.WithLabelValues("error").Inc()
	log.Ctx(req.Context()).Warn().Err(err).Msgf("Fetcher: request error=%q", err)
}
