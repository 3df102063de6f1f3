// Package aerr define application error type carrying tags, user-facing
// message, metadata and call stack.
package aerr

//
// apperror.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"io"
	"maps"
	"runtime"
	"slices"
	"strconv"
	"strings"
)

// AppError is immutable; every With* method return modified copy.
type AppError struct {
	err     error
	tags    []string
	msg     string
	userMsg string
	meta    map[string]any
	stack   []string
}

// New create error without stack; used mostly for package-level sentinel errors.
func New(msg string, args ...any) AppError {
	return AppError{msg: fmt.Sprintf(msg, args...)}
}

// Newf create error with message and current stack.
func Newf(msg string, args ...any) AppError {
	return AppError{
		stack: getStack(),
		msg:   fmt.Sprintf(msg, args...),
	}
}

func Wrap(err error) AppError {
	return AppError{
		stack: getStack(),
		err:   err,
	}
}

func Wrapf(err error, msg string, args ...any) AppError {
	return AppError{
		stack: getStack(),
		err:   err,
		msg:   fmt.Sprintf(msg, args...),
	}
}

// ApplyFor create copy of `aerr` wrapping `err`, with fresh stack.
// Optional `msg` set message and user message (when not empty).
func ApplyFor(aerr AppError, err error, msg ...string) AppError {
	if err == nil {
		panic("err for apply is nil")
	}

	nerr := aerr.clone()
	nerr.stack = getStack()
	nerr.err = err

	if len(msg) > 0 && msg[0] != "" {
		nerr.msg = msg[0]
	}

	if len(msg) > 1 && msg[1] != "" {
		nerr.userMsg = msg[1]
	}

	return nerr
}

//-------------------------------------------------------------

func (a AppError) WithMsg(msg string, args ...any) AppError {
	n := a.clone()
	n.msg = fmt.Sprintf(msg, args...)

	return n
}

func (a AppError) WithTag(tag string) AppError {
	if slices.Contains(a.tags, tag) {
		return a
	}

	n := a.clone()
	n.tags = append(n.tags, tag)

	return n
}

// WithUserMsg set message that can be presented to user (or operator).
func (a AppError) WithUserMsg(msg string, args ...any) AppError {
	n := a.clone()

	if len(args) == 0 {
		n.userMsg = msg
	} else {
		n.userMsg = fmt.Sprintf(msg, args...)
	}

	return n
}

func (a AppError) WithMeta(keyval ...any) AppError {
	if len(keyval)%2 != 0 {
		panic("invalid argument number to call WithMeta")
	}

	n := a.clone()
	if n.meta == nil {
		n.meta = make(map[string]any, len(keyval)/2) //nolint:mnd
	}

	for i := 0; i < len(keyval); i += 2 {
		key, ok := keyval[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keyval[i])
		}

		n.meta[key] = keyval[i+1]
	}

	return n
}

// WithError create copy with new wrapped error and updated stack.
func (a AppError) WithError(err error) AppError {
	n := a.clone()
	n.err = err
	n.stack = getStack()

	return n
}

//-------------------------------------------------------------

func (a AppError) Error() string {
	switch {
	case a.msg != "" && a.err != nil:
		return a.msg + ": " + a.err.Error()
	case a.msg != "":
		return a.msg
	case a.err != nil:
		return a.err.Error()
	default:
		return a.userMsg
	}
}

func (a AppError) Unwrap() error {
	return a.err
}

// Is compare errors by message and tags; wrapped error, meta and stack are ignored,
// so `errors.Is(err, ErrSomething)` match copies created by WithError / ApplyFor.
func (a AppError) Is(target error) bool {
	t, ok := target.(AppError) //nolint:errorlint
	if !ok {
		return false
	}

	return t.msg == a.msg && slices.Equal(t.tags, a.tags)
}

// String return user message if is defined; otherwise error message.
func (a AppError) String() string {
	if a.userMsg != "" {
		return a.userMsg
	}

	if a.msg != "" {
		return a.msg
	}

	if a.err != nil {
		return a.err.Error()
	}

	return ""
}

func (a AppError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%+v\n", CollectErrors(a))

			return
		}

		fallthrough
	case 's', 'q':
		io.WriteString(s, a.Error()) //nolint:errcheck
	}
}

func (a AppError) clone() AppError {
	return AppError{
		stack:   a.stack,
		msg:     a.msg,
		tags:    slices.Clone(a.tags),
		userMsg: a.userMsg,
		meta:    maps.Clone(a.meta),
		err:     a.err,
	}
}

//-------------------------------------------------------------

//nolint:gochecknoglobals
var skipFunctions = []string{
	"net/http.HandlerFunc.ServeHTTP",
	"runtime.goexit",
}

const maxStack = 10

func getStack() []string {
	pc := make([]uintptr, 32) //nolint:mnd

	n := runtime.Callers(3, pc) //nolint:mnd
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pc[:n])
	stack := make([]string, 0, n)

	for {
		frame, more := frames.Next()
		funcname := frame.Function

		if !slices.Contains(skipFunctions, funcname) {
			funcname = funcname[strings.LastIndex(funcname, "/")+1:]
			funcname = funcname[strings.Index(funcname, ".")+1:]
			stack = append(stack, frame.File+":"+strconv.Itoa(frame.Line)+":"+funcname)
		}

		if !more || len(stack) == maxStack {
			break
		}
	}

	return stack
}
