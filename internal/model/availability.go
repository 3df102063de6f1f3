package model

//
// availability.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

// Availability group parsed courses by level. Levels are kept in order of first
// appearance on the page. Zero value is empty and ready to use.
type Availability struct {
	levels  []Level
	courses map[Level][]Course
}

// Get return courses for level; nil when level has no openings.
func (a *Availability) Get(level Level) []Course {
	return a.courses[level]
}

func (a *Availability) Add(level Level, course Course) {
	if a.courses == nil {
		a.courses = make(map[Level][]Course)
	}

	if _, ok := a.courses[level]; !ok {
		a.levels = append(a.levels, level)
	}

	a.courses[level] = append(a.courses[level], course)
}

// Total count all openings on all levels.
func (a *Availability) Total() int {
	total := 0
	for _, courses := range a.courses {
		total += len(courses)
	}

	return total
}

// Levels return levels with any opening, in page order.
func (a *Availability) Levels() []Level {
	return append([]Level(nil), a.levels...)
}

// All return all courses grouped by level, in page order.
func (a *Availability) All() []Course {
	courses := make([]Course, 0, a.Total())
	for _, l := range a.levels {
		courses = append(courses, a.courses[l]...)
	}

	return courses
}
