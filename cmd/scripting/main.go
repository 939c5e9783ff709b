// Command scripting evaluates script resources with the built-in engines.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/robbyt/go-scripting/internal/logging"
)

// Version is set during build using ldflags
var Version = "dev"

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "scripting",
		Version: Version,
		Usage:   "Evaluate script resources with pluggable engines",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level: trace, debug, info, warn or error",
				Sources: cli.EnvVars("SCRIPTING_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   logging.FormatText,
				Usage:   "Log format: text or json",
				Sources: cli.EnvVars("SCRIPTING_LOG_FORMAT"),
			},
		},
		Commands: []*cli.Command{
			newEvalCmd(),
			newEnginesCmd(),
			{
				Name:  "version",
				Usage: "Print the version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintf(cmd.Root().Writer, "scripting version %s\n", cmd.Root().Version)
					return err
				},
			},
		},
	}
}

// newLogHandler builds the handler selected by the global log flags. Logs go to the error writer
// so they never mix with script output.
func newLogHandler(cmd *cli.Command) (slog.Handler, error) {
	root := cmd.Root()
	return logging.NewHandler(root.String("log-format"), root.String("log-level"), root.ErrWriter)
}
