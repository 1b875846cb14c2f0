package contract

import (
	"strings"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// Validate enforces the inbound batch contract. The engine assumes a request
// that passed this check.
func (r PrioritizeRequest) Validate() error {
	if len(r.Tasks) == 0 {
		return newPrioritizeError(ErrEmptyBatch, "at least one task is required")
	}
	if len(r.Tasks) > MaxBatchSize {
		return newPrioritizeError(ErrBatchTooLarge, "at most %d tasks per request, got %d", MaxBatchSize, len(r.Tasks))
	}
	for i, t := range r.Tasks {
		if err := t.validate(); err != nil {
			return newPrioritizeError(ErrInvalidTask, "tasks[%d]: %s", i, err.Error())
		}
	}
	return nil
}

type fieldError string

func (e fieldError) Error() string { return string(e) }

func (t TaskInput) validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fieldError("title is required")
	}
	if t.Importance < domain.MinImportance || t.Importance > domain.MaxImportance {
		return fieldError("importance must be between 1 and 5")
	}
	if t.EstimatedMinutes != nil && *t.EstimatedMinutes <= 0 {
		return fieldError("estimated_minutes must be positive")
	}
	return nil
}
