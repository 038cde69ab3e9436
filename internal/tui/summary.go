package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fiximg/internal/processor"
)

type SummaryRow struct {
	Label string
	Value string
}

// SummaryRows lists the totals shown after a run.
func SummaryRows(r processor.Report) []SummaryRow {
	return []SummaryRow{
		{Label: "Files processed", Value: fmt.Sprintf("%d", len(r.Outcomes))},
		{Label: "Optimized", Value: fmt.Sprintf("%d", r.Succeeded())},
		{Label: "Duplicates rejected", Value: fmt.Sprintf("%d", r.Collisions())},
		{Label: "Failed", Value: fmt.Sprintf("%d", len(r.Failures())-r.Collisions())},
		{Label: "Space saved", Value: FormatBytes(r.BytesSaved())},
	}
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, len(row.Label))
		valueWidth = max(valueWidth, len(row.Value))
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		lines = append(lines, fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value)))
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// RenderFailures prints one "<path>: <message>" line per failed outcome.
func RenderFailures(failures []processor.Outcome) string {
	lines := make([]string, 0, len(failures))
	for _, o := range failures {
		style := errorStyle
		if o.Class() == processor.ClassCollision {
			style = warnStyle
		}
		lines = append(lines, fmt.Sprintf("%s: %s", pathStyle.Render(o.Path), style.Render(o.Err.Error())))
	}
	return strings.Join(lines, "\n")
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%s%d B", sign, n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%s%.1f %ciB", sign, float64(n)/float64(div), "KMGTPE"[exp])
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	pathStyle  = lipgloss.NewStyle().Foreground(ColorAccentAlt)
	errorStyle = lipgloss.NewStyle().Foreground(ColorError)
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
)
