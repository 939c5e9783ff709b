package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	scripting "github.com/robbyt/go-scripting"
	"github.com/robbyt/go-scripting/engines"
	"github.com/robbyt/go-scripting/execution/bindings"
	"github.com/robbyt/go-scripting/execution/script/loader"
)

func newEvalCmd() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Aliases:   []string{"run"},
		Usage:     "Evaluate a script resource and print its result",
		ArgsUsage: "RESOURCE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "engine",
				Aliases: []string{"e"},
				Usage:   "Engine name; by default the engine is chosen from the resource suffix",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Directory resources are loaded from (default: working directory)",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Base URL resources are loaded from, instead of a directory",
			},
			&cli.StringFlag{
				Name:  "vars",
				Usage: "TOML file with variable bindings",
			},
			&cli.StringSliceFlag{
				Name:  "var",
				Usage: "Variable binding as key=value; may be repeated",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Cancel the evaluation after this duration (0 disables)",
			},
			&cli.StringFlag{
				Name:  "output",
				Value: "text",
				Usage: "Result format: text or json",
			},
		},
		Action: evalAction,
	}
}

func evalAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return fmt.Errorf("resource name required")
	}
	resource := cmd.Args().Get(0)

	handler, err := newLogHandler(cmd)
	if err != nil {
		return err
	}

	l, err := newLoader(cmd.String("root"), cmd.String("url"))
	if err != nil {
		return err
	}
	reg, err := engines.NewRegistry(handler)
	if err != nil {
		return err
	}

	vars, err := collectVars(cmd.String("vars"), cmd.StringSlice("var"))
	if err != nil {
		return err
	}

	evaluator, err := scripting.NewResourceEvaluator(
		cmd.String("engine"),
		resource,
		scripting.WithLoader(l),
		scripting.WithRegistry(reg),
		scripting.WithLogHandler(handler),
	)
	if err != nil {
		return err
	}

	if timeout := cmd.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out := cmd.Root().Writer
	sctx := bindings.NewContext(bindings.WithVars(vars), bindings.WithWriter(out))
	result, err := evaluator.Eval(ctx, sctx)
	if err != nil {
		return err
	}
	return printResult(out, cmd.String("output"), result)
}

// newLoader picks the HTTP loader when a base URL is given, and the disk loader otherwise.
func newLoader(root, baseURL string) (loader.Loader, error) {
	if baseURL != "" {
		return loader.NewFromHTTP(baseURL)
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root directory %s: %w", root, err)
	}
	return loader.NewFromDisk(abs)
}

func printResult(w io.Writer, format string, result any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "text", "":
		if result == nil {
			return nil
		}
		_, err := fmt.Fprintln(w, result)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
