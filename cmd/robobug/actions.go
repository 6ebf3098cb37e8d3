package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/robobug/pkg/robot"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type ActionsCommand struct {
	YAML bool `long:"yaml" description:"Print the catalog as YAML"`
	JSON bool `long:"json" description:"Print the catalog as JSON"`
}

func (c *ActionsCommand) Execute(args []string) error {
	m := robot.NewManifest()
	switch {
	case c.YAML:
		return m.WriteYAML(os.Stdout)
	case c.JSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	fmt.Println(headerStyle.Render("Robobug actions"))
	fmt.Println(renderCatalog(m.Actions))
	return nil
}

func renderCatalog(actions []robot.Action) string {
	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableNameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableReporterStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, []string{
			string(a.Name),
			a.Endpoint,
			formatParams(a.Params),
			string(a.Kind),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Action", "Endpoint", "Arguments (min..max, default)", "Kind").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			switch col {
			case 0:
				return tableNameStyle
			case 3:
				if row >= 0 && row < len(actions) && actions[row].Kind == robot.Reporter {
					return tableReporterStyle
				}
				return tableCellStyle
			default:
				return tableCellStyle
			}
		})

	return t.Render()
}

func formatParams(params []robot.Param) string {
	if len(params) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, fmt.Sprintf("%s %d..%d (%d)", p.Arg, p.Min, p.Max, p.Default))
	}
	return strings.Join(parts, ", ")
}
