package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"xorbatch/internal/processor"
)

type SummaryRow struct {
	Label string
	Value string
}

// SummaryRows describes the accumulated outcome of a session.
func SummaryRows(h *History) []SummaryRow {
	totals := h.Totals()
	return []SummaryRow{
		{Label: "Runs", Value: fmt.Sprintf("%d", len(h.Results))},
		{Label: "Last state", Value: totals.State.String()},
		{Label: "Files processed", Value: fmt.Sprintf("%d of %d", totals.Processed, totals.Total)},
		{Label: "Files failed", Value: fmt.Sprintf("%d", totals.Failed)},
		{Label: "Inputs deleted", Value: fmt.Sprintf("%d", totals.Deleted)},
		{Label: "Bytes transformed", Value: humanize.IBytes(uint64(totals.Bytes))},
		{Label: "Errors", Value: fmt.Sprintf("%d", len(h.Errors))},
	}
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// StateLine is a one-line verdict for the final state of a run.
func StateLine(s processor.State) string {
	switch s {
	case processor.StateCompleted:
		return successStyle.Render("Processing complete.")
	case processor.StateAborted:
		return warnStyle.Render("Processing interrupted.")
	case processor.StateFailed:
		return errorStyle.Render("Processing failed.")
	default:
		return dimStyle.Render("Nothing was run.")
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle   = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorWarn)
)
