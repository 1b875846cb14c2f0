package service

import (
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTaskToInput(t *testing.T) {
	due := time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC)
	task := &domain.Task{
		Title:        "Ship report",
		Description:  "Q1 numbers",
		DueAt:        &due,
		EstimatedMin: domain.IntPtr(45),
		Priority:     4,
	}

	in := taskToInput(task)
	assert.Equal(t, "Ship report", in.Title)
	assert.Equal(t, "Q1 numbers", in.Description)
	assert.Equal(t, &due, in.DueAt)
	assert.Equal(t, 45, *in.EstimatedMinutes)
	assert.Equal(t, 4, in.Importance)

	task.Priority = 0
	assert.Equal(t, domain.DefaultImportance, taskToInput(task).Importance)
}

func TestFirstByTitle_EarliestWins(t *testing.T) {
	tasks := []*domain.Task{
		{ID: "a", Title: "Review"},
		{ID: "b", Title: "Ship"},
		{ID: "c", Title: "Review"},
	}

	assert.Equal(t, "a", firstByTitle(tasks, "Review").ID)
	assert.Equal(t, "b", firstByTitle(tasks, "Ship").ID)
	assert.Nil(t, firstByTitle(tasks, "review"))
	assert.Nil(t, firstByTitle(nil, "Ship"))
}
