package watcher

//
// session.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"strings"
	"sync"
)

// Session hold cookie used to authenticate requests to the site.
type Session struct {
	mu    sync.RWMutex
	token string
}

func NewSession(token string) *Session {
	return &Session{token: token}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear forget token; used when site ask for log in.
func (s *Session) Clear() {
	s.SetToken("")
}

func (s *Session) Valid() bool {
	return s.Token() != ""
}

//-------------------------------------------------------------

const (
	sessionCookieName  = "JSESSIONID"
	sessionCookieLabel = "Cookie"
)

// ParseSessionMessage extract session token from message pasted by admin.
// Message must contain JSESSIONID; optional "Cookie:" prefix (copied from browser) is removed.
func ParseSessionMessage(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, sessionCookieName) {
		return "", false
	}

	if rest, ok := strings.CutPrefix(text, sessionCookieLabel); ok {
		text = strings.TrimSpace(strings.TrimLeft(rest, ":"))
	}

	return text, true
}
