package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"github.com/robbyt/go-scripting/engine"
	"github.com/robbyt/go-scripting/engines"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newEnginesCmd() *cli.Command {
	return &cli.Command{
		Name:    "engines",
		Aliases: []string{"ls"},
		Usage:   "List the registered engines with their names and extensions",
		Action:  enginesAction,
	}
}

func enginesAction(ctx context.Context, cmd *cli.Command) error {
	handler, err := newLogHandler(cmd)
	if err != nil {
		return err
	}
	reg, err := engines.NewRegistry(handler)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, renderEngines(reg.Engines()))
	return err
}

// renderEngines formats engine metadata as a table.
func renderEngines(metas []engine.Metadata) string {
	rows := make([][]string, 0, len(metas))
	for _, m := range metas {
		rows = append(rows, []string{
			m.Name,
			m.Language,
			strings.Join(m.Names, ", "),
			strings.Join(m.Extensions, ", "),
			strconv.FormatBool(m.Binary),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ENGINE", "LANGUAGE", "NAMES", "EXTENSIONS", "BINARY").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}
