package service

import (
	"context"

	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// Prioritizer ranks a validated batch. *prioritize.Engine satisfies it.
type Prioritizer interface {
	Prioritize(ctx context.Context, req contract.PrioritizeRequest) *contract.PrioritizeResponse
}

type PrioritizeService interface {
	// Prioritize validates an ad-hoc batch and ranks it.
	Prioritize(ctx context.Context, req contract.PrioritizeRequest) (*contract.PrioritizeResponse, error)
	// PrioritizeSaved ranks the owner's open stored tasks and writes the
	// scores back.
	PrioritizeSaved(ctx context.Context, req contract.SavedRequest) (*contract.PrioritizeResponse, error)
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, ownerID, projectID string) ([]*domain.Task, error)
	Events(ctx context.Context, taskID string) ([]*domain.TaskEvent, error)
}
