package domain

import (
	"fmt"
	"strings"
	"time"
)

// Task is the durable task record owned by the surrounding task service.
// The prioritization engine only reads it and writes AIScore back.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`

	DueAt        *time.Time `json:"due_at,omitempty"`
	EstimatedMin *int       `json:"estimated_minutes,omitempty"`
	Priority     int        `json:"priority"` // 1-5, 1 = lowest
	AIScore      *float64   `json:"ai_score,omitempty"`
	Tags         []string   `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields the store relies on.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title is required")
	}
	if len(t.Title) > 255 {
		return fmt.Errorf("task title must be at most 255 characters")
	}
	if t.OwnerID == "" {
		return fmt.Errorf("task owner is required")
	}
	if t.ProjectID == "" {
		return fmt.Errorf("task project is required")
	}
	if t.Priority < MinImportance || t.Priority > MaxImportance {
		return fmt.Errorf("task priority must be between %d and %d, got %d", MinImportance, MaxImportance, t.Priority)
	}
	if t.EstimatedMin != nil && *t.EstimatedMin <= 0 {
		return fmt.Errorf("estimated minutes must be positive, got %d", *t.EstimatedMin)
	}
	if !ValidTaskStatuses[t.Status] {
		return fmt.Errorf("invalid task status %q", t.Status)
	}
	return nil
}

// IsOpen reports whether the task still takes part in prioritization.
func (t *Task) IsOpen() bool {
	return t.Status != TaskDone
}
