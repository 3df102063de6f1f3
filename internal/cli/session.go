package cli

//
// session.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"golang.org/x/term"
)

const sessionRequestTimeout = 10 * time.Second

func newSetSessionCmd() *cli.Command {
	return &cli.Command{
		Name:  "set",
		Usage: "send new session cookie to running service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "mgmt-address",
				Usage:    "address of management endpoints of running service",
				Required: true,
				Aliases:  []string{"m"},
				Sources:  cli.EnvVars(envPrefix + "MGMT_ADDRESS"),
				Config:   cli.StringConfig{TrimSpace: true},
			},
		},
		Action: wrapNoDB(setSessionCmd),
	}
}

//nolint:forbidigo
func setSessionCmd(ctx context.Context, clicmd *cli.Command) error {
	token, err := readSessionToken()
	if err != nil {
		return err
	}

	endpoint := mgmtURL(clicmd.String("mgmt-address")) + "/session"
	log.Ctx(ctx).Debug().Msgf("Session: sending token to %q", endpoint)

	resp, err := resty.New().
		SetTimeout(sessionRequestTimeout).
		R().
		SetContext(ctx).
		SetFormData(map[string]string{"token": token}).
		Post(endpoint)
	if err != nil {
		return aerr.Wrapf(err, "send session failed").WithMeta("url", endpoint)
	}

	if resp.StatusCode() != 200 { //nolint:mnd
		return aerr.New("send session failed").
			WithUserMsg("service rejected session: %s %s", resp.Status(), strings.TrimSpace(resp.String()))
	}

	fmt.Println("Session updated")

	return nil
}

// readSessionToken read cookie from terminal without echo or from stdin when it is not a terminal.
func readSessionToken() (string, error) {
	var token string

	if term.IsTerminal(syscall.Stdin) {
		//nolint:forbidigo
		fmt.Print("Enter session cookie: ")

		bytetoken, err := term.ReadPassword(syscall.Stdin)
		if err != nil {
			return "", aerr.Wrapf(err, "read session cookie error")
		}

		//nolint:forbidigo
		fmt.Println()

		token = string(bytetoken)
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", aerr.Wrapf(err, "read session cookie error")
		}

		token = line
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", aerr.ErrValidation.WithUserMsg("session cookie can't be empty")
	}

	return token, nil
}

// mgmtURL build base url from listen address; empty host mean localhost.
func mgmtURL(address string) string {
	if strings.HasPrefix(address, "http://") || strings.HasPrefix(address, "https://") {
		return strings.TrimSuffix(address, "/")
	}

	if strings.HasPrefix(address, ":") {
		address = "127.0.0.1" + address
	}

	return "http://" + address
}
