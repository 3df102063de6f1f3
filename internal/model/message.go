package model

// message.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.

// Message is outgoing text message.
type Message struct {
	Text string
	// HTML enable html parse mode.
	HTML bool
	// Buttons is optional inline keyboard, row by row.
	Buttons [][]Button
}

// Button of inline keyboard; Data is returned in callback.
type Button struct {
	Text string
	Data string
}

func NewTextMessage(text string) Message {
	return Message{Text: text}
}

func NewHTMLMessage(text string) Message {
	return Message{Text: text, HTML: true}
}

func (m Message) WithButtons(rows ...[]Button) Message {
	m.Buttons = rows

	return m
}
