package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// FormatTaskList renders stored tasks with their last AI score.
func FormatTaskList(tasks []*domain.Task, now time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks found.") + "\n"
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		estimate := Dim("--")
		if t.EstimatedMin != nil {
			estimate = FormatMinutes(*t.EstimatedMin)
		}
		score := Dim("--")
		if t.AIScore != nil {
			score = ScoreStyle(*t.AIScore).Render(fmt.Sprintf("%.2f", *t.AIScore))
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			StyleFg.Render(t.Title),
			TaskStatusPill(t.Status),
			DueStyled(t.DueAt, now),
			estimate,
			fmt.Sprintf("P%d", t.Priority),
			score,
		})
	}

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Tasks (%d)", len(tasks))))
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"ID", "TITLE", "STATUS", "DUE", "EST", "PRI", "SCORE"}, rows))
	return b.String()
}

// FormatTaskCreated confirms a new task.
func FormatTaskCreated(t *domain.Task) string {
	return fmt.Sprintf("%s %s %s\n", StyleGreen.Render("✔ Created"), StyleFg.Render(t.Title), TruncID(t.ID))
}
