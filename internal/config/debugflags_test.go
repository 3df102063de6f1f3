package config

//
// debugflags_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"testing"

	"gitlab.com/kabes/go-integwatch/internal/assert"
)

func TestDebugFlags(t *testing.T) {
	tests := []struct {
		input       string
		expected    []DebugFlag
		notexpected []DebugFlag
	}{
		{"", []DebugFlag{}, []DebugFlag{DebugMsgBody, DebugDo, DebugRouter, DebugBotAPI}},
		{"xxx", []DebugFlag{}, []DebugFlag{DebugMsgBody, DebugDo, DebugRouter}},
		{"all", []DebugFlag{DebugMsgBody, DebugDo, DebugRouter, DebugBotAPI}, []DebugFlag{}},
		{"all,do,go", []DebugFlag{DebugMsgBody, DebugDo, DebugRouter, DebugGo}, []DebugFlag{}},
		{"do,go", []DebugFlag{DebugDo, DebugGo}, []DebugFlag{DebugMsgBody, DebugRouter}},
		{"go, do ,router", []DebugFlag{DebugDo, DebugGo, DebugRouter}, []DebugFlag{DebugMsgBody}},
		{"botapi,logbody", []DebugFlag{DebugBotAPI, DebugMsgBody}, []DebugFlag{DebugDo}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt), func(t *testing.T) {
			df := NewDebugFLags(tt.input)
			for _, e := range tt.expected {
				assert.True(t, df.HasFlag(e))
			}

			for _, e := range tt.notexpected {
				assert.True(t, !df.HasFlag(e))
			}
		})
	}
}
