package prioritize

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/llm"
	"github.com/google/uuid"
)

// Stats counts how batches were served since the engine was created.
type Stats struct {
	Remote    uint64
	Local     uint64
	Fallbacks uint64
}

// Engine runs the remote strategy when one is configured and degrades to the
// local heuristic on any failure. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	remote Strategy
	local  *LocalStrategy
	logger *slog.Logger
	now    func() time.Time

	remoteCount   atomic.Uint64
	localCount    atomic.Uint64
	fallbackCount atomic.Uint64
}

type Option func(*Engine)

// WithClock overrides the time source used when a request carries no Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocalStrategy replaces the default heuristic.
func WithLocalStrategy(s *LocalStrategy) Option {
	return func(e *Engine) { e.local = s }
}

// NewEngine creates an engine. remote may be nil, in which case every batch
// is ranked locally.
func NewEngine(remote Strategy, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		remote: remote,
		local:  NewLocalStrategy(),
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Prioritize ranks the batch and builds a daily plan. It does not fail:
// remote problems are logged and answered by the local heuristic. Input is
// expected to be validated already.
func (e *Engine) Prioritize(ctx context.Context, req contract.PrioritizeRequest) *contract.PrioritizeResponse {
	now := e.now()
	if req.Now != nil {
		now = *req.Now
	}
	batch := Batch{Tasks: req.Tasks, Now: now}

	var (
		outcome  *Outcome
		degraded bool
	)
	if e.remote != nil && !req.ForceLocal {
		out, err := e.attemptRemote(ctx, batch)
		if err == nil {
			outcome = out
			e.remoteCount.Add(1)
		} else {
			degraded = true
			e.fallbackCount.Add(1)
			e.logger.Warn("remote prioritization failed, falling back",
				"error", err,
				"error_code", llm.ErrorCode(err),
				"task_count", len(batch.Tasks),
			)
		}
	}
	if outcome == nil {
		outcome = e.local.Rank(batch)
		e.localCount.Add(1)
	}

	return &contract.PrioritizeResponse{
		RequestID:   uuid.NewString(),
		GeneratedAt: now.UTC(),
		Strategy:    outcome.Strategy,
		Degraded:    degraded,
		Results:     outcome.Results,
		Plan:        outcome.Plan,
	}
}

func (e *Engine) attemptRemote(ctx context.Context, batch Batch) (out *Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("remote strategy panicked: %v", r)
		}
	}()
	return e.remote.Attempt(ctx, batch)
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Remote:    e.remoteCount.Load(),
		Local:     e.localCount.Load(),
		Fallbacks: e.fallbackCount.Load(),
	}
}
