package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskflow/internal/contract"
)

const scoreBarWidth = 10

// StrategyBadge labels which path produced a ranking.
func StrategyBadge(strategy contract.Strategy, degraded bool) string {
	switch {
	case strategy == contract.StrategyRemote:
		return StylePurple.Render("● AI RANKED")
	case degraded:
		return StyleYellow.Render("▲ HEURISTIC") + Dim(" (model unavailable, used local scoring)")
	default:
		return StyleGreen.Render("● HEURISTIC")
	}
}

// FormatPrioritize renders the ranked results as a table followed by the
// daily plan in a box.
func FormatPrioritize(resp *contract.PrioritizeResponse) string {
	var b strings.Builder

	b.WriteString(Header("Priorities"))
	b.WriteString("\n")
	b.WriteString(StrategyBadge(resp.Strategy, resp.Degraded))
	b.WriteString("\n\n")

	if len(resp.Results) == 0 {
		b.WriteString(Dim("Nothing to prioritize."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(resp.Results))
	for i, r := range resp.Results {
		rows = append(rows, []string{
			Bold(fmt.Sprintf("%d.", i+1)),
			RenderScoreBar(r.Score, scoreBarWidth),
			StyleFg.Render(r.Title),
			Dim(r.Rationale),
		})
	}
	b.WriteString(RenderTable([]string{"#", "SCORE", "TASK", "WHY"}, rows))
	b.WriteString("\n")

	b.WriteString(FormatPlan(resp.Plan))
	b.WriteString("\n")
	return b.String()
}

// FormatPlan renders plan slots inside a titled box.
func FormatPlan(plan []string) string {
	if len(plan) == 0 {
		return RenderBox("Today", Dim("No slots planned."))
	}
	lines := make([]string, len(plan))
	for i, slot := range plan {
		when, title, ok := strings.Cut(slot, " ")
		if !ok {
			lines[i] = StyleFg.Render(slot)
			continue
		}
		lines[i] = StyleBlue.Render(when) + "  " + StyleFg.Render(title)
	}
	return RenderBox("Today", strings.Join(lines, "\n"))
}
