package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

const (
	ModeTrip         = "trip-service"
	ModePayment      = "payment-service"
	ModeNotification = "notification-service"
)

// isKnownMode checks if the provided mode name is known.
func isKnownMode(s string) (string, bool) {
	switch s {
	case ModeTrip, "trip", "t":
		return ModeTrip, true
	case ModePayment, "payment", "p":
		return ModePayment, true
	case ModeNotification, "notification", "n":
		return ModeNotification, true
	default:
		return "", false
	}
}

// ParseMode supports:
//
//	--mode=<value>
//	<value> (subcommand shorthand), e.g., `trip-service --max-concurrent=100`
func ParseMode(args []string) (string, []string, error) {
	var mode string
	var out []string

	for i := range args {
		arg := args[i]
		if after, ok := strings.CutPrefix(arg, "--mode="); ok {
			mode = after
			continue
		}

		if mode == "" {
			if m, ok := isKnownMode(arg); ok {
				mode = m
				continue
			}
		}
		out = append(out, arg)
	}

	if mode == "" {
		return "", out, errors.New("no mode specified: use --mode=<service>")
	}

	if m, ok := isKnownMode(mode); ok {
		mode = m
	}

	return mode, out, nil
}

// PrintUsage prints the usage information with examples.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, "\033[36m") // cyan

	fmt.Fprintln(w, `Usage:
  ./taxi-trips --mode=<service> [flags]

Services (modes):
  trip-service                 HTTP API and orchestrator for the trip lifecycle
  payment-service              Settlement consumer for completed trips
  notification-service         Trip-summary email consumer

Examples:
  ./taxi-trips --mode=trip-service --max-concurrent=100
  ./taxi-trips --mode=payment-service --prefetch=8
  ./taxi-trips --mode=notification-service --prefetch=8`)

	fmt.Fprint(w, "\033[0m") // reset
}

// AttachUsage wires a concise per-mode usage to a FlagSet.
func AttachUsage(fs *flag.FlagSet, mode string) {
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ./taxi-trips --mode=%s [flags]\n", mode)
		fs.PrintDefaults()
	}
}
