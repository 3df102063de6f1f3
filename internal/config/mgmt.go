package config

//
// mgmt.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
)

// MgmtConf configure management server.
type MgmtConf struct {
	// Address to listen; empty disable management server.
	Address string
	// AccessList is list of ip or networks separated by ',' allowed to use endpoints.
	AccessList    string
	EnableMetrics bool

	DebugFlags DebugFlags

	accessList *AccessList
}

func (c *MgmtConf) Validate() error {
	if c.AccessList == "" {
		return nil
	}

	al, err := NewAccessList(c.AccessList)
	if err != nil {
		return aerr.Wrapf(err, "validate mgmt access list failed")
	}

	c.accessList = al

	log.Logger.Debug().Object("mgmtAccessList", al).Msg("MgmtConf: access list configured")

	return nil
}

func (c *MgmtConf) Enabled() bool {
	return c.Address != ""
}

// AuthRequest check is request remote address allowed to access management
// endpoints. Loopback is always allowed; without access list private networks are allowed.
func (c *MgmtConf) AuthRequest(req *http.Request) bool {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}

	if host == "localhost" {
		return true
	}

	ip := net.ParseIP(host)

	switch {
	case ip == nil:
		return false
	case ip.IsLoopback():
		return true
	case c.accessList != nil:
		return c.accessList.HasAccess(ip)
	default:
		return ip.IsPrivate()
	}
}

//-------------------------------------------------------------

type AccessList struct {
	AllowedIPs  []net.IP
	AllowedNets []*net.IPNet
}

func NewAccessList(accesslist string) (*AccessList, error) {
	var (
		ips  []net.IP
		nets []*net.IPNet
	)

	for entry := range strings.SplitSeq(accesslist, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			_, n, err := net.ParseCIDR(entry)
			if err != nil {
				return nil, aerr.ErrValidation.WithUserMsg(
					"invalid entry in access list: entry=%q error=%q", entry, err)
			}

			nets = append(nets, n)
		} else {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, aerr.ErrValidation.WithUserMsg("invalid entry in access list: entry=%q", entry)
			}

			ips = append(ips, ip)
		}
	}

	return &AccessList{
		AllowedIPs:  ips,
		AllowedNets: nets,
	}, nil
}

func (a *AccessList) HasAccess(ip net.IP) bool {
	for _, i := range a.AllowedIPs {
		if i.Equal(ip) {
			return true
		}
	}

	for _, n := range a.AllowedNets {
		if n.Contains(ip) {
			return true
		}
	}

	return false
}

func (a *AccessList) MarshalZerologObject(event *zerolog.Event) {
	event.Interface("allowed_ips", a.AllowedIPs).
		Interface("allowed_nets", a.AllowedNets)
}
