package service

import (
	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// taskToInput maps a stored task onto the prioritization input. The task's
// priority is its importance.
func taskToInput(t *domain.Task) contract.TaskInput {
	importance := t.Priority
	if importance == 0 {
		importance = domain.DefaultImportance
	}
	return contract.TaskInput{
		Title:            t.Title,
		Description:      t.Description,
		DueAt:            t.DueAt,
		EstimatedMinutes: t.EstimatedMin,
		Importance:       importance,
	}
}

// firstByTitle returns the first task whose title matches exactly. Results
// only carry titles, so with duplicate titles every result lands on the
// earliest task.
func firstByTitle(tasks []*domain.Task, title string) *domain.Task {
	for _, t := range tasks {
		if t.Title == title {
			return t
		}
	}
	return nil
}
