package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MikeSquared-Agency/Triage/internal/analysis"
	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

var (
	colorHigh   = lipgloss.Color("160") // Red
	colorMedium = lipgloss.Color("214") // Orange
	colorLow    = lipgloss.Color("42")  // Green
	colorSubtle = lipgloss.Color("241") // Gray

	styleTitle  = lipgloss.NewStyle().Bold(true)
	styleSubtle = lipgloss.NewStyle().Foreground(colorSubtle)
	styleBadge  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCard   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

func tierColor(tier scoring.Tier) lipgloss.Color {
	switch tier {
	case scoring.TierHigh:
		return colorHigh
	case scoring.TierMedium:
		return colorMedium
	default:
		return colorLow
	}
}

// Terminal renders tasks as bordered cards, coloured by tier. width <= 0 lets each
// card size to its content.
func Terminal(tasks []analysis.ScoredTask, width int) string {
	if len(tasks) == 0 {
		return styleSubtle.Render("No tasks provided for analysis.") + "\n"
	}

	var b strings.Builder
	for _, t := range tasks {
		b.WriteString(card(t, width))
		b.WriteString("\n")
	}
	return b.String()
}

func card(t analysis.ScoredTask, width int) string {
	color := tierColor(t.Priority.Tier)
	badge := styleBadge.Foreground(color).Render(string(t.Priority.Tier))

	lines := []string{
		badge + " " + styleTitle.Render(t.Title),
		styleSubtle.Render(fmt.Sprintf("Due %s · %s h · importance %s",
			t.DueDate, optional(t.EstimatedHours), optional(t.Importance))),
		t.Summary,
	}
	if t.Status == analysis.StatusSkipped {
		lines = append(lines, styleSubtle.Render("skipped: "+t.SkipReason))
	}

	style := styleCard.BorderForeground(color)
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return analysis.FormatScore(*v)
}
