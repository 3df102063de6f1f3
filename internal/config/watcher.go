package config

//
// watcher.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
)

const (
	DefaultBaseURL        = "https://iseteenindus.integratsioon.ee/"
	DefaultServiceType    = "Keelekursus"
	DefaultPollInterval   = 60 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	minPollInterval       = 5 * time.Second
)

// WatcherConf configure polling remote site.
type WatcherConf struct {
	// BaseURL of remote site; always ends with "/".
	BaseURL string
	// ServiceType is serviceTypeCode used in polling.
	ServiceType string
	// Municipality is municipalityCode used in polling; may be empty.
	Municipality string
	// Interval between polling cycles.
	Interval time.Duration
	// RequestTimeout for one request to remote site.
	RequestTimeout time.Duration
	UserAgent      string
	// Cookie is optional initial session token.
	Cookie string

	DebugFlags DebugFlags
}

func (c *WatcherConf) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return aerr.ErrValidation.WithUserMsg("invalid base url %q", c.BaseURL)
	}

	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}

	if c.Interval < minPollInterval {
		return aerr.ErrValidation.WithUserMsg("polling interval must be at least %s", minPollInterval)
	}

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent()
	}

	return nil
}

// SearchURL return address of search endpoint.
func (c *WatcherConf) SearchURL() string {
	return c.BaseURL + "service/search"
}

func (c *WatcherConf) MarshalZerologObject(event *zerolog.Event) {
	event.Str("base_url", c.BaseURL).
		Str("service_type", c.ServiceType).
		Str("municipality", c.Municipality).
		Dur("interval", c.Interval).
		Dur("request_timeout", c.RequestTimeout).
		Str("user_agent", c.UserAgent).
		Bool("cookie_set", c.Cookie != "")
}
