package watcher

//
// state.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"sync"
	"time"

	"gitlab.com/kabes/go-integwatch/internal/model"
)

// State is in-memory watcher state shared by poll loop, bot and mgmt handlers.
type State struct {
	mu sync.Mutex

	courses       map[model.Level]model.CourseSet
	lastAdminText string
	polling       bool
	logNeeded     bool
	lastCycle     time.Time
	lastFault     string
}

func NewState() *State {
	return &State{
		courses: make(map[model.Level]model.CourseSet),
		polling: true,
	}
}

// Courses return last known courses for level.
func (s *State) Courses(level model.Level) model.CourseSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.courses[level]
}

func (s *State) SetCourses(level model.Level, courses model.CourseSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.courses[level] = courses
}

// Openings return number of known courses per level.
func (s *State) Openings() map[model.Level]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make(map[model.Level]int, len(s.courses))
	for level, courses := range s.courses {
		res[level] = len(courses)
	}

	return res
}

// ReplaceAdminText remember text as last message for admin. Return false when
// text is the same as previous one.
func (s *State) ReplaceAdminText(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastAdminText == text {
		return false
	}

	s.lastAdminText = text

	return true
}

func (s *State) LastAdminText() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastAdminText
}

func (s *State) Polling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.polling
}

func (s *State) SetPolling(polling bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.polling = polling
}

func (s *State) LogNeeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.logNeeded
}

func (s *State) SetLogNeeded(needed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logNeeded = needed
}

func (s *State) cycleFinished(ts time.Time, fault string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCycle = ts
	s.lastFault = fault
}

//-------------------------------------------------------------

// Status is snapshot of watcher state.
type Status struct {
	SessionSet        bool                `json:"session_set"`
	Polling           bool                `json:"polling"`
	DiagnosticPending bool                `json:"diagnostic_pending"`
	LastAdminText     string              `json:"last_admin_text"`
	LastCycle         time.Time           `json:"last_cycle"`
	LastFault         string              `json:"last_fault,omitempty"`
	Openings          map[model.Level]int `json:"openings"`
}

func (s *State) snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	openings := make(map[model.Level]int, len(model.AllLevels))
	for _, level := range model.AllLevels {
		openings[level] = 0
	}

	for level, courses := range s.courses {
		openings[level] = len(courses)
	}

	return Status{
		Polling:           s.polling,
		DiagnosticPending: s.logNeeded,
		LastAdminText:     s.lastAdminText,
		LastCycle:         s.lastCycle,
		LastFault:         s.lastFault,
		Openings:          openings,
	}
}
