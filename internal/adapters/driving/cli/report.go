package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gautamkumar30/kontract.ai/internal/core/domain"
)

// Risk band colours, darkest to brightest.
var riskStyles = map[domain.RiskLevel]lipgloss.Style{
	domain.RiskLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // green
	domain.RiskMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // yellow
	domain.RiskHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	domain.RiskCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	kindStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// renderReport formats a change list as a human-readable drift report.
func renderReport(changes []domain.Change) string {
	if len(changes) == 0 {
		return "No changes detected.\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%d change(s) detected", len(changes))))
	b.WriteString("\n\n")

	counts := make(map[domain.RiskLevel]int)
	for i := range changes {
		change := &changes[i]
		counts[change.RiskLevel]++

		badge := riskStyles[change.RiskLevel].Render(strings.ToUpper(string(change.RiskLevel)))
		b.WriteString(fmt.Sprintf("[%s] %s", badge, kindStyle.Render(string(change.Kind))))
		if change.Kind == domain.ChangeModified || change.Kind == domain.ChangeRewritten {
			b.WriteString(faintStyle.Render(fmt.Sprintf("  similarity %.2f (%s)", change.Similarity, change.Magnitude)))
		}
		b.WriteString("\n")

		b.WriteString(fmt.Sprintf("  score %d/100\n", change.RiskScore))
		if change.Summary != "" {
			b.WriteString(fmt.Sprintf("  %s\n", change.Summary))
		}
		b.WriteString(fmt.Sprintf("  %s\n", change.Explanation))

		if change.Diff != nil {
			if len(change.Diff.AddedWords) > 0 {
				b.WriteString(faintStyle.Render(fmt.Sprintf("  + %s", strings.Join(change.Diff.AddedWords, ", "))))
				b.WriteString("\n")
			}
			if len(change.Diff.RemovedWords) > 0 {
				b.WriteString(faintStyle.Render(fmt.Sprintf("  - %s", strings.Join(change.Diff.RemovedWords, ", "))))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Summary: ")
	var parts []string
	for _, level := range []domain.RiskLevel{domain.RiskCritical, domain.RiskHigh, domain.RiskMedium, domain.RiskLow} {
		if counts[level] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[level], level))
		}
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString("\n")

	return b.String()
}
