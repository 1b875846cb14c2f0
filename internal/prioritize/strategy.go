package prioritize

import (
	"context"
	"time"

	"github.com/alexanderramin/taskflow/internal/contract"
)

// Batch is the input to a single prioritization attempt.
type Batch struct {
	Tasks []contract.TaskInput
	Now   time.Time
}

// Outcome is what a strategy produced for a batch.
type Outcome struct {
	Results  []contract.ScoreResult
	Plan     []string
	Strategy contract.Strategy
}

// Strategy ranks a batch of tasks and proposes a daily plan.
type Strategy interface {
	Name() contract.Strategy
	Attempt(ctx context.Context, batch Batch) (*Outcome, error)
}
