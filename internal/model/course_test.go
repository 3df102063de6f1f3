package model

//
// course_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"testing"

	"gitlab.com/kabes/go-integwatch/internal/assert"
)

func TestCourseIdentity(t *testing.T) {
	tests := []struct {
		a, b  Course
		equal bool
	}{
		{NewCourse("09:00", "Tallinn", "3"), NewCourse("09:00", "Tallinn", "3"), true},
		{NewCourse("09:00", "Tallinn", "3"), NewCourse("09:00", "Tallinn", "1"), true},
		{NewCourse("09:00", "Tallinn", "3"), NewCourse("10:00", "Tallinn", "3"), false},
		{NewCourse("09:00", "Tallinn", "3"), NewCourse("09:00", "Tartu", "3"), false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt), func(t *testing.T) {
			assert.Equal(t, tt.a.Equal(tt.b), tt.equal)
			assert.Equal(t, tt.a.Key() == tt.b.Key(), tt.equal)
		})
	}
}

func TestCourseFormat(t *testing.T) {
	c := NewCourse("09:00–10:00", "Tallinn", "3")

	assert.Equal(t, c.Line(), "* 09:00–10:00 at Tallinn (free 3)")
	assert.Equal(t, c.String(), `Course("09:00–10:00", "Tallinn", "3")`)
	assert.Equal(t, Lines([]Course{c, NewCourse("t", "p", "f")}),
		"* 09:00–10:00 at Tallinn (free 3)\n* t at p (free f)")
	assert.Equal(t, Lines(nil), "")
}

func TestCourseSet(t *testing.T) {
	s1 := NewCourseSet(NewCourse("a", "p", "1"), NewCourse("b", "p", "2"))
	s2 := NewCourseSet(NewCourse("b", "p", "9"), NewCourse("a", "p", "0"))
	s3 := NewCourseSet(NewCourse("a", "p", "1"))

	assert.True(t, s1.Equal(s2))
	assert.True(t, !s1.Equal(s3))
	assert.True(t, !s3.Equal(s1))
	assert.True(t, NewCourseSet().Equal(nil))
	assert.True(t, s1.Contains(NewCourse("a", "p", "x")))
	assert.True(t, !s1.Contains(NewCourse("a", "q", "1")))

	// duplicates collapse
	assert.Len(t, NewCourseSet(NewCourse("a", "p", "1"), NewCourse("a", "p", "2")), 1)
}

func TestAvailability(t *testing.T) {
	av := Availability{}
	av.Add(LevelB1, NewCourse("1", "p", "1"))
	av.Add(LevelA2, NewCourse("2", "p", "1"))
	av.Add(LevelB1, NewCourse("3", "p", "1"))

	assert.Equal(t, av.Total(), 3)
	assert.Equal(t, av.Levels(), []Level{LevelB1, LevelA2})
	assert.Len(t, av.Get(LevelC1), 0)

	// courses are grouped by level in order of first appearance
	all := av.All()
	assert.Len(t, all, 3)
	assert.Equal(t, all[0].Time, "1")
	assert.Equal(t, all[1].Time, "3")
	assert.Equal(t, all[2].Time, "2")

	var empty Availability
	assert.Equal(t, empty.Total(), 0)
	assert.Len(t, empty.Levels(), 0)
	assert.Len(t, empty.All(), 0)
}

func TestLevelValid(t *testing.T) {
	for _, l := range AllLevels {
		assert.True(t, l.Valid())
	}

	assert.True(t, LevelAny.Valid())
	assert.True(t, !Level("A1").Valid())
	assert.True(t, !Level("b1").Valid())
}

func TestSubscriberWants(t *testing.T) {
	wildcard := Subscriber{UserID: 1}
	b1 := Subscriber{UserID: 2, Level: LevelB1}

	assert.True(t, wildcard.Wants(LevelA2))
	assert.True(t, wildcard.Wants(LevelC1))
	assert.True(t, b1.Wants(LevelB1))
	assert.True(t, !b1.Wants(LevelB2))
}
