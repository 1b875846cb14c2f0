package scheduler

import (
	"fmt"

	"github.com/alexanderramin/taskflow/internal/contract"
)

const (
	// PlanSize is how many top-ranked tasks make it into the daily plan.
	PlanSize = 5
	// DayStartHour and DayEndHour bound the plan; slots never end after DayEndHour.
	DayStartHour = 9
	DayEndHour   = 18
	// BreakHours is the gap inserted after every slot, including the last.
	BreakHours = 1
)

// PlanSlot is one whole-hour block of the daily plan.
type PlanSlot struct {
	Title     string
	StartHour int
	EndHour   int
}

func (s PlanSlot) String() string {
	return fmt.Sprintf("%02d:00-%02d:00 %s", s.StartHour, s.EndHour, s.Title)
}

// BuildPlanSlots greedily lays the top-ranked results out over one working day.
//
// Durations come from the input task with the same title. With duplicate titles
// every result resolves to the first such task; callers that need exact
// correlation must keep titles unique within a batch.
//
// Once the day is used up, remaining slots are clipped to DayEndHour and may
// start after they end. They are still emitted so the plan always has
// min(len(results), PlanSize) entries.
func BuildPlanSlots(results []contract.ScoreResult, tasks []contract.TaskInput) []PlanSlot {
	n := min(len(results), PlanSize)
	slots := make([]PlanSlot, 0, n)

	current := DayStartHour
	for _, r := range results[:n] {
		hours := 0
		if orig := findByTitle(tasks, r.Title); orig != nil && orig.EstimatedMinutes != nil {
			hours = *orig.EstimatedMinutes / 60
		}
		if hours <= 0 {
			hours = 1
		}

		end := min(current+hours, DayEndHour)
		slots = append(slots, PlanSlot{Title: r.Title, StartHour: current, EndHour: end})
		current = end + BreakHours
	}
	return slots
}

// BuildDailyPlan renders BuildPlanSlots as "HH:00-HH:00 <title>" strings.
func BuildDailyPlan(results []contract.ScoreResult, tasks []contract.TaskInput) []string {
	slots := BuildPlanSlots(results, tasks)
	plan := make([]string, len(slots))
	for i, s := range slots {
		plan[i] = s.String()
	}
	return plan
}

func findByTitle(tasks []contract.TaskInput, title string) *contract.TaskInput {
	for i := range tasks {
		if tasks[i].Title == title {
			return &tasks[i]
		}
	}
	return nil
}
