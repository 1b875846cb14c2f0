package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/taskflow/internal/db"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	events   repository.TaskEventRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(
	tasks repository.TaskRepo,
	events repository.TaskEventRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) TaskService {
	return &taskService{
		tasks:    tasks,
		events:   events,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create stores a new task and its created event in one transaction.
func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	fields := map[string]any{"owner_id": t.OwnerID, "project_id": t.ProjectID}
	defer observe(ctx, s.observer, "task-create", time.Now(), fields, &err)

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = domain.TaskTodo
	}
	if t.Priority == 0 {
		t.Priority = domain.DefaultImportance
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err = t.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteTaskRepo(tx).Create(ctx, t); err != nil {
			return err
		}
		return repository.NewSQLiteTaskEventRepo(tx).Append(ctx, &domain.TaskEvent{
			ID:        uuid.New().String(),
			TaskID:    t.ID,
			Type:      domain.EventCreated,
			Payload:   map[string]any{"title": t.Title},
			CreatedAt: now,
		})
	})
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) List(ctx context.Context, ownerID, projectID string) ([]*domain.Task, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner is required")
	}
	return s.tasks.List(ctx, ownerID, projectID)
}

func (s *taskService) Events(ctx context.Context, taskID string) ([]*domain.TaskEvent, error) {
	return s.events.ListByTask(ctx, taskID)
}
