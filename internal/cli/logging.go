// logging.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
package cli

import (
	"fmt"
	"io"
	stdlog "log"
	"log/syslog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/journald"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-integwatch/internal/aerr"
	"gitlab.com/kabes/go-integwatch/internal/config"
)

const (
	logFormatConsole  = "console"
	logFormatLogfmt   = "logfmt"
	logFormatJSON     = "json"
	logFormatSyslog   = "syslog"
	logFormatJournald = "journald"
)

//nolint:gochecknoglobals
var logFormats = []string{logFormatConsole, logFormatLogfmt, logFormatJSON, logFormatSyslog, logFormatJournald}

// initializeLogger configure global logger output and level; stdlib log is redirected to it.
func initializeLogger(level, format string) error {
	zerolog.ErrorMarshalFunc = aerr.ErrorMarshalFunc //nolint:reassign

	writer, err := newLogWriter(resolveLogFormat(format))
	if err != nil {
		return err
	}

	log.Logger = log.Output(writer).With().Timestamp().Caller().Logger()

	lvl, ok := parseLogLevel(level)
	if !ok && level != "" {
		log.Warn().Msgf("Logger: unknown level=%q; falling back to %q", level, lvl)
	}

	zerolog.SetGlobalLevel(lvl)

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	return nil
}

// parseLogLevel return level by name; unknown name give info level and false.
func parseLogLevel(level string) (zerolog.Level, bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}

	return lvl, true
}

// resolveLogFormat return known format or default one for current stderr.
func resolveLogFormat(format string) string {
	if slices.Contains(logFormats, format) {
		return format
	}

	def := logFormatLogfmt
	if stderrIsTerminal() {
		def = logFormatConsole
	}

	if format != "" {
		log.Warn().Msgf("Logger: unknown format=%q; using %q", format, def)
	}

	return def
}

func newLogWriter(format string) (io.Writer, error) {
	switch format {
	case logFormatJSON:
		return os.Stderr, nil
	case logFormatSyslog:
		w, err := syslog.New(syslog.LOG_DAEMON, config.AppName)
		if err != nil {
			return nil, aerr.Wrapf(err, "connect to syslog failed")
		}

		return zerolog.SyslogLevelWriter(w), nil
	case logFormatJournald:
		return journald.NewJournalDWriter(), nil
	case logFormatLogfmt:
		return newLogfmtWriter(os.Stderr), nil
	default:
		return newConsoleWriter(os.Stderr, stderrIsTerminal()), nil
	}
}

func stderrIsTerminal() bool {
	fi, err := os.Stderr.Stat()

	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// newConsoleWriter write colored, time-only entries on terminal; full timestamps otherwise.
func newConsoleWriter(out io.Writer, terminal bool) zerolog.ConsoleWriter {
	tformat := time.RFC3339
	if terminal {
		tformat = time.TimeOnly
	}

	return zerolog.ConsoleWriter{ //nolint:exhaustruct
		Out:        out,
		NoColor:    !terminal,
		TimeFormat: tformat,
	}
}

// newLogfmtWriter write every entry as key=value pairs.
func newLogfmtWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{ //nolint:exhaustruct
		Out:                 out,
		NoColor:             true,
		TimeFormat:          time.RFC3339,
		FormatLevel:         logfmtPair("level", "", false),
		FormatTimestamp:     logfmtPair("ts", "", false),
		FormatMessage:       logfmtPair("msg", "<nil>", true),
		FormatCaller:        logfmtCaller,
		FormatErrFieldValue: logfmtValue("<nil>"),
	}
}

func logfmtPair(key, empty string, quote bool) zerolog.Formatter {
	return func(i any) string {
		if i == nil {
			if empty == "" {
				return ""
			}

			return key + "=" + empty
		}

		val := fmt.Sprintf("%s", i)
		if quote {
			val = strconv.Quote(val)
		}

		return key + "=" + val
	}
}

func logfmtValue(empty string) zerolog.Formatter {
	return func(i any) string {
		if i == nil {
			return empty
		}

		return strconv.Quote(fmt.Sprintf("%s", i))
	}
}

func logfmtCaller(i any) string {
	if i == nil {
		return "caller=UNKNOWN"
	}

	caller := fmt.Sprintf("%s", i)
	if strings.ContainsAny(caller, " \"") {
		caller = strconv.Quote(caller)
	}

	return "caller=" + caller
}
