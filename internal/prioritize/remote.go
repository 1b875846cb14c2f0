package prioritize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/llm"
	"github.com/alexanderramin/taskflow/internal/scheduler"
)

// RemoteStrategy asks a language model to rank the batch and write the plan.
// It makes exactly one call per attempt; retries are the caller's business
// and the engine never retries.
type RemoteStrategy struct {
	client  llm.LLMClient
	timeout time.Duration
}

// NewRemoteStrategy wraps client. A positive timeout bounds each attempt in
// addition to whatever deadline the client applies itself.
func NewRemoteStrategy(client llm.LLMClient, timeout time.Duration) *RemoteStrategy {
	return &RemoteStrategy{client: client, timeout: timeout}
}

func (s *RemoteStrategy) Name() contract.Strategy { return contract.StrategyRemote }

type remoteResult struct {
	Title     string   `json:"title"`
	Score     *float64 `json:"score"`
	Rationale string   `json:"rationale"`
}

type remotePayload struct {
	Results []remoteResult `json:"results"`
	Plan    []string       `json:"plan"`
}

func (s *RemoteStrategy) Attempt(ctx context.Context, batch Batch) (*Outcome, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	noRetry := 0
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPrioritize,
		SystemPrompt: prioritizeSystemPrompt,
		UserPrompt:   buildPrioritizePrompt(batch.Tasks, batch.Now),
		MaxRetries:   &noRetry,
	})
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, llm.ErrTimeout) {
			return nil, fmt.Errorf("%w: %v", llm.ErrTimeout, err)
		}
		return nil, err
	}

	payload, err := llm.ExtractJSON[remotePayload](resp.Text, payloadValidator(batch.Tasks))
	if err != nil {
		return nil, err
	}

	results := make([]contract.ScoreResult, len(payload.Results))
	for i, r := range payload.Results {
		results[i] = contract.ScoreResult{Title: r.Title, Score: *r.Score, Rationale: r.Rationale}
	}
	scheduler.SortByScore(results)

	return &Outcome{
		Results:  results,
		Plan:     payload.Plan,
		Strategy: contract.StrategyRemote,
	}, nil
}

// payloadValidator checks the model answer against the batch: one result
// per input task, titles matching the inputs (duplicates included), and a
// plan no longer than the local one would be.
func payloadValidator(tasks []contract.TaskInput) llm.SchemaValidator[remotePayload] {
	return func(p remotePayload) error {
		if err := validatePayload(p); err != nil {
			return err
		}
		if len(p.Results) != len(tasks) {
			return fmt.Errorf("got %d results for %d tasks", len(p.Results), len(tasks))
		}
		if len(p.Plan) > scheduler.PlanSize {
			return fmt.Errorf("plan has %d slots, at most %d allowed", len(p.Plan), scheduler.PlanSize)
		}

		pending := make(map[string]int, len(tasks))
		for _, t := range tasks {
			pending[t.Title]++
		}
		for i, r := range p.Results {
			if pending[r.Title] == 0 {
				return fmt.Errorf("results[%d]: title %q does not match an unscored task", i, r.Title)
			}
			pending[r.Title]--
		}
		return nil
	}
}

func validatePayload(p remotePayload) error {
	if p.Results == nil {
		return errors.New("missing results")
	}
	if p.Plan == nil {
		return errors.New("missing plan")
	}
	for i, r := range p.Results {
		if strings.TrimSpace(r.Title) == "" {
			return fmt.Errorf("results[%d]: title is empty", i)
		}
		if r.Score == nil {
			return fmt.Errorf("results[%d]: score is missing", i)
		}
		if *r.Score < 0 || *r.Score > 1 {
			return fmt.Errorf("results[%d]: score %v out of range [0,1]", i, *r.Score)
		}
		if strings.TrimSpace(r.Rationale) == "" {
			return fmt.Errorf("results[%d]: rationale is empty", i)
		}
	}
	return nil
}
