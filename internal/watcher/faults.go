package watcher

//
// faults.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"gitlab.com/kabes/go-integwatch/internal/aerr"
)

// Fault kinds; alert text for classified faults is error user message.
const (
	TagTransportFault = "transport fault"
	TagAuthFault      = "auth fault"
	TagStructureFault = "structure fault"
)

//nolint:gochecknoglobals
var (
	// ErrTransport is returned when site respond with non-200 status.
	ErrTransport = aerr.New("transport fault").WithTag(TagTransportFault)
	// ErrAuth is returned when site require log in or session is not set.
	ErrAuth = aerr.New("auth fault").WithTag(TagAuthFault)
	// ErrStructure is returned when page can't be parsed.
	ErrStructure = aerr.New("structure fault").WithTag(TagStructureFault)
)

const unclassifiedPrefix = "Exception happened: "

// FaultKind return name of fault kind used in metrics.
func FaultKind(err error) string {
	switch {
	case aerr.HasTag(err, TagAuthFault):
		return "auth"
	case aerr.HasTag(err, TagTransportFault):
		return "transport"
	case aerr.HasTag(err, TagStructureFault):
		return "structure"
	default:
		return "unclassified"
	}
}

// AlertText return message for admin describing err.
func AlertText(err error) string {
	if FaultKind(err) != "unclassified" {
		if msg := aerr.GetUserMessage(err); msg != "" {
			return msg
		}
	}

	return unclassifiedPrefix + err.Error()
}

func needsCookieText(baseURL string) string {
	return "Needs new cookie:\n" + baseURL
}
