package watcher

//
// diff_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"testing"

	"gitlab.com/kabes/go-integwatch/internal/assert"
	"gitlab.com/kabes/go-integwatch/internal/model"
)

func TestDifferDecide(t *testing.T) {
	const base = "https://example.com/"

	differ := NewDiffer(NewState(), base)
	c1 := model.NewCourse("t1", "p1", "1")
	c2 := model.NewCourse("t2", "p2", "2")

	steps := []struct {
		name    string
		courses []model.Course
		text    string
		notify  bool
	}{
		{"initial empty", nil, "", false},
		{
			"first opening", []model.Course{c1},
			`<a href="https://example.com/">Quick!</a> There is an opening for level B1:` + "\n\n* t1 at p1 (free 1)",
			true,
		},
		{"free changed", []model.Course{model.NewCourse("t1", "p1", "0")}, "", false},
		{
			"second opening", []model.Course{c2, c1},
			"There are 2 openings for level B1:\n\n* t2 at p2 (free 2)\n* t1 at p1 (free 1)",
			true,
		},
		{"reordered", []model.Course{c1, c2}, "", false},
		{"one removed", []model.Course{c2}, "There is an opening for level B1:\n\n* t2 at p2 (free 2)", true},
		{"all removed", []model.Course{}, "No more openings for level B1.", true},
		{"still empty", nil, "", false},
	}

	for _, step := range steps {
		text, notify := differ.Decide(model.LevelB1, step.courses)
		assert.Equal(t, notify, step.notify)
		assert.Equal(t, text, step.text)
	}
}

func TestDifferLevelsIndependent(t *testing.T) {
	state := NewState()
	differ := NewDiffer(state, "https://example.com/")

	_, notify := differ.Decide(model.LevelA2, []model.Course{model.NewCourse("t1", "p1", "1")})
	assert.True(t, notify)

	_, notify = differ.Decide(model.LevelB2, nil)
	assert.Equal(t, notify, false)

	assert.Equal(t, len(state.Courses(model.LevelA2)), 1)
	assert.Equal(t, len(state.Courses(model.LevelB2)), 0)
}

func TestDifferEscapeHTML(t *testing.T) {
	differ := NewDiffer(NewState(), "https://example.com/")

	text, notify := differ.Decide(model.LevelC1, []model.Course{model.NewCourse("<10:00>", "A & B", "1")})
	assert.True(t, notify)
	assert.Contains(t, text, "* &lt;10:00&gt; at A &amp; B (free 1)")
	assert.Contains(t, text, `<a href="https://example.com/">Quick!</a>`)
}
