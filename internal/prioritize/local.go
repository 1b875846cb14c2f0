package prioritize

import (
	"context"

	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/scheduler"
)

// LocalStrategy scores tasks with the deterministic heuristic. It needs no
// network and never fails, which makes it the fallback for every other
// strategy.
type LocalStrategy struct {
	Weights scheduler.ScoringWeights
}

// NewLocalStrategy returns a LocalStrategy using the default weights.
func NewLocalStrategy() *LocalStrategy {
	return &LocalStrategy{Weights: scheduler.DefaultWeights()}
}

func (s *LocalStrategy) Name() contract.Strategy { return contract.StrategyLocal }

func (s *LocalStrategy) Attempt(_ context.Context, batch Batch) (*Outcome, error) {
	return s.Rank(batch), nil
}

// Rank scores every task, sorts the results by score descending (ties keep
// input order) and builds the plan from the top of the ranking.
func (s *LocalStrategy) Rank(batch Batch) *Outcome {
	results := make([]contract.ScoreResult, 0, len(batch.Tasks))
	for _, t := range batch.Tasks {
		b := scheduler.ScoreTaskWithWeights(t, batch.Now, s.Weights)
		results = append(results, contract.ScoreResult{
			Title:     t.Title,
			Score:     b.Score,
			Rationale: b.Rationale,
		})
	}
	scheduler.SortByScore(results)

	return &Outcome{
		Results:  results,
		Plan:     scheduler.BuildDailyPlan(results, batch.Tasks),
		Strategy: contract.StrategyLocal,
	}
}
