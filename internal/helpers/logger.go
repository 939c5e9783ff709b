package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger returns the handler to keep and a logger grouped under group. A nil handler is
// replaced with a stderr text handler grouped under component, so output from different
// components stays distinguishable when nobody configured logging.
func SetupLogger(handler slog.Handler, component string, group string) (slog.Handler, *slog.Logger) {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, nil).WithGroup(component)
		slog.New(handler).Debug("handler is nil, using the default logger configuration")
	}

	if group == "" {
		return handler, slog.New(handler)
	}
	return handler, slog.New(handler.WithGroup(group))
}
