package model

// level.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.

import "slices"

// Level is language proficiency level code, i.e. "B1". Empty level mean "any level".
type Level string

const (
	LevelA2  = Level("A2")
	LevelB1  = Level("B1")
	LevelB2  = Level("B2")
	LevelC1  = Level("C1")
	LevelAny = Level("")
)

// AllLevels are levels checked on every polling cycle.
//
//nolint:gochecknoglobals
var AllLevels = []Level{LevelA2, LevelB1, LevelB2, LevelC1}

func (l Level) IsAny() bool {
	return l == LevelAny
}

// Valid return true for levels from AllLevels and for LevelAny.
func (l Level) Valid() bool {
	return l == LevelAny || slices.Contains(AllLevels, l)
}

func (l Level) String() string {
	return string(l)
}
