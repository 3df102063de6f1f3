package watcher

//
// diff.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"html"

	"gitlab.com/kabes/go-integwatch/internal/model"
)

// Differ compare current courses with previously seen and create notification text.
type Differ struct {
	state   *State
	baseURL string
}

func NewDiffer(state *State, baseURL string) *Differ {
	return &Differ{state: state, baseURL: baseURL}
}

// Decide return html message describing change on level. Courses are compared
// by identity, ignoring order and free places. Known courses are always replaced.
func (d *Differ) Decide(level model.Level, courses []model.Course) (string, bool) {
	prior := d.state.Courses(level)
	current := model.NewCourseSet(courses...)

	d.state.SetCourses(level, current)

	if prior.Equal(current) {
		return "", false
	}

	if len(courses) == 0 {
		// prior is not empty here
		return fmt.Sprintf("No more openings for level %s.", level), true
	}

	var text string
	if len(courses) == 1 {
		text = fmt.Sprintf("There is an opening for level %s:\n\n%s", level, escapedLines(courses))
	} else {
		text = fmt.Sprintf("There are %d openings for level %s:\n\n%s", len(courses), level, escapedLines(courses))
	}

	if len(prior) == 0 {
		text = fmt.Sprintf(`<a href="%s">Quick!</a> `, d.baseURL) + text
	}

	return text, true
}

func escapedLines(courses []model.Course) string {
	escaped := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		escaped = append(escaped, model.NewCourse(
			html.EscapeString(c.Time),
			html.EscapeString(c.Place),
			html.EscapeString(c.Free),
		))
	}

	return model.Lines(escaped)
}
