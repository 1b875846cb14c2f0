package scheduler

import (
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/contract"
)

type ScoringWeights struct {
	Urgency    float64
	Importance float64
	Effort     float64
}

// DefaultWeights returns the production weighting. The weights sum to 1 so a
// score built from factors in [0,1] stays in [0,1].
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Urgency:    0.5,
		Importance: 0.3,
		Effort:     0.2,
	}
}

// ScoreBreakdown is the result of scoring one task, with its sub-factors kept
// for display and tests.
type ScoreBreakdown struct {
	Urgency        float64
	ImportanceNorm float64
	EffortInverse  float64
	Score          float64
	Rationale      string
}

// ScoreTask scores a task against now using the default weights. It is total
// over validated input and has no side effects.
func ScoreTask(task contract.TaskInput, now time.Time) ScoreBreakdown {
	return ScoreTaskWithWeights(task, now, DefaultWeights())
}

func ScoreTaskWithWeights(task contract.TaskInput, now time.Time, w ScoringWeights) ScoreBreakdown {
	b := ScoreBreakdown{
		Urgency:        DeadlineUrgency(task.DueAt, now),
		ImportanceNorm: float64(task.Importance) / 5.0,
		EffortInverse:  EffortInverse(task.EstimatedMinutes),
	}
	b.Score = clamp01(w.Urgency*b.Urgency + w.Importance*b.ImportanceNorm + w.Effort*b.EffortInverse)
	b.Rationale = Rationale(task, now)
	return b
}

// DeadlineUrgency maps a due time to a step-function urgency in [0,1].
// Bucket edges use "<", so a deadline exactly 1h away lands in the 6h bucket.
func DeadlineUrgency(dueAt *time.Time, now time.Time) float64 {
	if dueAt == nil {
		return 0.1
	}
	if !dueAt.After(now) {
		return 1.0
	}
	hours := dueAt.Sub(now).Hours()
	switch {
	case hours < 1:
		return 0.95
	case hours < 6:
		return 0.80
	case hours < 24:
		return 0.60
	case hours < 72:
		return 0.40
	default:
		return 0.20
	}
}

// EffortInverse rewards short tasks. Unknown effort is neutral.
func EffortInverse(estimatedMin *int) float64 {
	if estimatedMin == nil {
		return 0.5
	}
	m := *estimatedMin
	switch {
	case m <= 15:
		return 0.95
	case m <= 30:
		return 0.85
	case m <= 60:
		return 0.70
	case m <= 120:
		return 0.50
	default:
		return 0.30
	}
}

// Rationale builds the human-readable tag list for a task. Its thresholds are
// deliberately independent of the numeric buckets above (e.g. "imminent
// deadline" covers the whole first day), so tag and score can disagree.
func Rationale(task contract.TaskInput, now time.Time) string {
	var tags []string

	if task.DueAt != nil {
		hoursUntil := task.DueAt.Sub(now).Hours()
		switch {
		case hoursUntil < 0:
			tags = append(tags, "overdue")
		case hoursUntil < 24:
			tags = append(tags, "imminent deadline")
		case hoursUntil < 72:
			tags = append(tags, "due soon")
		}
	}

	switch {
	case task.Importance >= 4:
		tags = append(tags, "high importance")
	case task.Importance == 1:
		tags = append(tags, "low priority")
	}

	if task.EstimatedMinutes != nil && *task.EstimatedMinutes > 0 {
		switch m := *task.EstimatedMinutes; {
		case m <= 30:
			tags = append(tags, "quick win")
		case m > 120:
			tags = append(tags, "significant effort")
		}
	}

	if len(tags) == 0 {
		tags = append(tags, "standard priority")
	}
	return strings.Join(tags, "; ") + "."
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
