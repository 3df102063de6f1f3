package common

//
// Common application errors
//
// errors.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"

	"gitlab.com/kabes/go-integwatch/internal/aerr"
)

// Validation errors.
//
//nolint:gochecknoglobals
var (
	ErrUnknownSubscriber = aerr.New("unknown subscriber").WithTag(aerr.ValidationError)
	ErrInvalidLevel      = aerr.New("invalid level").WithTag(aerr.ValidationError)
	ErrInvalidUserID     = aerr.New("invalid user id").WithTag(aerr.ValidationError)
)

var ErrNoData = errors.New("no result")
