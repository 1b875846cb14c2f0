package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// ListOpen returns the owner's tasks that are not done, oldest first.
	// An empty projectID matches every project.
	ListOpen(ctx context.Context, ownerID, projectID string) ([]*domain.Task, error)
	// List returns all of the owner's tasks, oldest first.
	List(ctx context.Context, ownerID, projectID string) ([]*domain.Task, error)
	UpdateScore(ctx context.Context, id string, score float64, at time.Time) error
}

type TaskEventRepo interface {
	Append(ctx context.Context, e *domain.TaskEvent) error
	ListByTask(ctx context.Context, taskID string) ([]*domain.TaskEvent, error)
}
