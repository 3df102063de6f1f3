package model

//
// course.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Course is one bookable slot as rendered by the site. All fields are free text.
type Course struct {
	Time  string
	Place string
	Free  string
}

func NewCourse(time, place, free string) Course {
	return Course{Time: time, Place: place, Free: free}
}

// Key identify course; remaining capacity (Free) is not part of identity.
func (c Course) Key() CourseKey {
	return CourseKey{Time: c.Time, Place: c.Place}
}

// Equal compare courses by time and place only.
func (c Course) Equal(other Course) bool {
	return c.Time == other.Time && c.Place == other.Place
}

// Line format course as one line of notification.
func (c Course) Line() string {
	return fmt.Sprintf("* %s at %s (free %s)", c.Time, c.Place, c.Free)
}

func (c Course) String() string {
	return fmt.Sprintf(`Course("%s", "%s", "%s")`, c.Time, c.Place, c.Free)
}

func (c Course) MarshalZerologObject(event *zerolog.Event) {
	event.Str("time", c.Time).
		Str("place", c.Place).
		Str("free", c.Free)
}

//-------------------------------------------------------------

type CourseKey struct {
	Time  string
	Place string
}

// CourseSet is set of courses keyed by identity. Last added course with given
// identity is kept.
type CourseSet map[CourseKey]Course

func NewCourseSet(courses ...Course) CourseSet {
	set := make(CourseSet, len(courses))
	for _, c := range courses {
		set[c.Key()] = c
	}

	return set
}

// Equal check both sets contain the same course identities.
func (s CourseSet) Equal(other CourseSet) bool {
	if len(s) != len(other) {
		return false
	}

	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}

	return true
}

func (s CourseSet) Contains(c Course) bool {
	_, ok := s[c.Key()]

	return ok
}

//-------------------------------------------------------------

// Lines format courses, one per line, in given order.
func Lines(courses []Course) string {
	lines := make([]string, 0, len(courses))
	for _, c := range courses {
		lines = append(lines, c.Line())
	}

	return strings.Join(lines, "\n")
}
