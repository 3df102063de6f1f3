package aerr

//
// apperror_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"
	"fmt"
	"testing"

	"gitlab.com/kabes/go-integwatch/internal/assert"
)

func TestUniqueList(t *testing.T) {
	var ulist uniqueList

	ulist.append("a")
	ulist.append("b", "c")
	ulist.append("a")
	ulist.append("b", "d")

	assert.Equal(t, []string(ulist), []string{"a", "b", "c", "d"})
}

func TestAppErrorWrap(t *testing.T) {
	err := errors.New("error1")

	aerr1 := Wrap(err)
	assert.True(t, errors.Is(aerr1, err))
	assert.Equal(t, errors.Unwrap(aerr1), err)
	assert.True(t, aerr1.stack != nil)
	assert.Equal(t, aerr1.String(), "error1")
	assert.Equal(t, aerr1.Error(), "error1")

	aerr2 := Wrapf(err, "fetch %s failed", "page")
	assert.Equal(t, aerr2.Error(), "fetch page failed: error1")
}

func TestAppErrorUserMsg(t *testing.T) {
	aerr0 := New("fault")
	assert.Equal(t, GetUserMessage(aerr0), "")
	assert.Equal(t, GetUserMessageOr(aerr0, "--"), "--")

	aerr1 := aerr0.WithUserMsg("Got error code %d.", 500)
	assert.Equal(t, aerr1.String(), "Got error code 500.")
	assert.Equal(t, GetUserMessage(aerr1), "Got error code 500.")
	assert.Equal(t, aerr0.userMsg, "")

	// text with verbs passed as argument is not formatted again
	aerr2 := aerr0.WithUserMsg("%s", "100% sure")
	assert.Equal(t, GetUserMessage(aerr2), "100% sure")

	// outer user message wins
	wrapped := fmt.Errorf("cycle: %w", aerr1)
	outer := Wrapf(wrapped, "outer").WithUserMsg("outer message")
	assert.Equal(t, GetUserMessage(outer), "outer message")
	assert.Equal(t, GetUserMessage(wrapped), "Got error code 500.")
}

func TestAppErrorIs(t *testing.T) {
	sentinel := New("transport fault").WithTag("transport")

	err := sentinel.WithUserMsg("Got error code 404.").WithMeta("status", 404)
	assert.True(t, errors.Is(err, sentinel))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", err), sentinel))

	other := New("auth fault").WithTag("auth")
	assert.True(t, !errors.Is(err, other))

	applied := ApplyFor(sentinel, errors.New("io"))
	assert.True(t, errors.Is(applied, sentinel))
	assert.True(t, applied.stack != nil)
}

func TestAppErrorMeta(t *testing.T) {
	aerr0 := New("error1")
	aerr1 := aerr0.WithMeta("k1", 1, "k2", "v2")
	assert.Equal(t, len(aerr1.meta), 2)
	assert.Equal(t, aerr1.meta["k1"], any(1))

	aerr2 := aerr1.WithMeta("k1", 2, 22, "v22")
	assert.Equal(t, len(aerr2.meta), 3)
	assert.Equal(t, aerr2.meta["k1"], any(2))
	assert.Equal(t, aerr2.meta["22"], any("v22"))
	// no changes in aerr1
	assert.Equal(t, aerr1.meta["k1"], any(1))
}

func TestAppErrorTags(t *testing.T) {
	aerr1 := New("error1").WithTag("k1").WithTag("k2").WithTag("k1")
	assert.Equal(t, GetTags(aerr1), []string{"k1", "k2"})
	assert.True(t, HasTag(aerr1, "k1"))
	assert.True(t, !HasTag(aerr1, "k3"))

	chained := Wrapf(aerr1, "outer").WithTag("k3")
	assert.Equal(t, GetTags(chained), []string{"k1", "k2", "k3"})
	assert.True(t, HasTag(fmt.Errorf("x: %w", chained), "k2"))
}
