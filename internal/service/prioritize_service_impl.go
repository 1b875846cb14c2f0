package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/repository"
	"github.com/google/uuid"
)

type prioritizeService struct {
	engine   Prioritizer
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPrioritizeService(
	engine Prioritizer,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PrioritizeService {
	return &prioritizeService{
		engine:   engine,
		tasks:    tasks,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *prioritizeService) Prioritize(ctx context.Context, req contract.PrioritizeRequest) (resp *contract.PrioritizeResponse, err error) {
	fields := map[string]any{"task_count": len(req.Tasks)}
	defer observe(ctx, s.observer, "prioritize", time.Now(), fields, &err)

	if err = req.Validate(); err != nil {
		return nil, err
	}

	resp = s.engine.Prioritize(ctx, req)
	fields["strategy"] = string(resp.Strategy)
	fields["degraded"] = resp.Degraded
	return resp, nil
}

func (s *prioritizeService) PrioritizeSaved(ctx context.Context, req contract.SavedRequest) (resp *contract.PrioritizeResponse, err error) {
	fields := map[string]any{"owner_id": req.OwnerID}
	if req.ProjectID != "" {
		fields["project_id"] = req.ProjectID
	}
	defer observe(ctx, s.observer, "prioritize-saved", time.Now(), fields, &err)

	if req.OwnerID == "" {
		return nil, errors.New("owner is required")
	}

	var stored []*domain.Task
	stored, err = s.tasks.ListOpen(ctx, req.OwnerID, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, &contract.PrioritizeError{Code: contract.ErrNoTasks, Message: "no open tasks to prioritize"}
	}
	fields["task_count"] = len(stored)

	inputs := make([]contract.TaskInput, len(stored))
	for i, t := range stored {
		inputs[i] = taskToInput(t)
	}

	// A backlog over the batch cap is ranked locally so every task still
	// gets a score and the remote prompt stays bounded.
	forceLocal := req.ForceLocal
	if len(inputs) > contract.MaxBatchSize {
		forceLocal = true
		fields["over_batch_cap"] = true
	}

	// The engine runs outside the transaction; a remote call can take
	// seconds and must not hold the database.
	resp = s.engine.Prioritize(ctx, contract.PrioritizeRequest{
		Tasks:      inputs,
		Now:        req.Now,
		ForceLocal: forceLocal,
	})
	fields["strategy"] = string(resp.Strategy)
	fields["degraded"] = resp.Degraded

	updated := 0
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txEvents := repository.NewSQLiteTaskEventRepo(tx)

		now := time.Now().UTC()
		for _, result := range resp.Results {
			task := firstByTitle(stored, result.Title)
			if task == nil {
				continue
			}
			if err := txTasks.UpdateScore(ctx, task.ID, result.Score, now); err != nil {
				return err
			}
			if err := txEvents.Append(ctx, &domain.TaskEvent{
				ID:     uuid.New().String(),
				TaskID: task.ID,
				Type:   domain.EventPrioritized,
				Payload: map[string]any{
					"score":      result.Score,
					"strategy":   string(resp.Strategy),
					"request_id": resp.RequestID,
				},
				CreatedAt: now,
			}); err != nil {
				return err
			}
			score := result.Score
			task.AIScore = &score
			updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["scores_written"] = updated
	return resp, nil
}
