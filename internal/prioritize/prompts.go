package prioritize

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/contract"
)

const prioritizeSystemPrompt = `You are a productivity expert. Given a list of tasks, prioritize them and generate a realistic daily plan.

For each task, provide:
1. A priority score between 0.0 and 1.0 (higher = do sooner)
2. A brief rationale

Then generate a daily plan with time slots between 09:00 and 18:00.

Respond ONLY with a valid JSON object (no markdown, no extra text):
{
  "results": [
    {"title": "task title", "score": 0.95, "rationale": "reason"}
  ],
  "plan": ["09:00-10:30 Task 1", "10:45-11:15 Task 2"]
}

Use each task title exactly as given.`

// buildPrioritizePrompt lists every task with its deadline, effort and
// importance, one per line.
func buildPrioritizePrompt(tasks []contract.TaskInput, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current time: %s\n\nTasks:\n", now.UTC().Format(time.RFC3339))
	for i, t := range tasks {
		due := "no deadline"
		if t.DueAt != nil {
			due = t.DueAt.UTC().Format(time.RFC3339)
		}
		effort := "unknown"
		if t.EstimatedMinutes != nil && *t.EstimatedMinutes > 0 {
			effort = fmt.Sprintf("%d", *t.EstimatedMinutes)
		}
		fmt.Fprintf(&b, "- %d. %s (due: %s, effort: %s min, importance: %d/5)\n",
			i+1, t.Title, due, effort, t.Importance)
	}
	return b.String()
}
