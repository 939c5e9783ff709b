// Package logging builds the slog handlers used by the command line tool.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// level is a parsed log level. Trace logs at debug level and also reports the caller.
type level struct {
	slog   slog.Level
	caller bool
}

func parseLevel(name string) (level, error) {
	switch strings.ToLower(name) {
	case "trace":
		return level{slog: slog.LevelDebug, caller: true}, nil
	case "debug":
		return level{slog: slog.LevelDebug}, nil
	case "", "info":
		return level{slog: slog.LevelInfo}, nil
	case "warn", "warning":
		return level{slog: slog.LevelWarn}, nil
	case "error":
		return level{slog: slog.LevelError}, nil
	default:
		return level{}, fmt.Errorf("unknown log level %q", name)
	}
}

// NewHandler creates a handler writing to w in the given format, "text" or "json". A nil writer
// means stderr.
func NewHandler(format, levelName string, w io.Writer) (slog.Handler, error) {
	lvl, err := parseLevel(levelName)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}

	switch strings.ToLower(format) {
	case "", FormatText:
		return log.NewWithOptions(w, log.Options{
			Level:           log.Level(lvl.slog),
			ReportCaller:    lvl.caller,
			ReportTimestamp: lvl.slog <= slog.LevelDebug,
		}), nil
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     lvl.slog,
			AddSource: lvl.caller,
		}), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
