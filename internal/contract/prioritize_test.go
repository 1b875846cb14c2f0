package contract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tasksN(n int) []TaskInput {
	tasks := make([]TaskInput, n)
	for i := range tasks {
		tasks[i] = TaskInput{Title: fmt.Sprintf("task %d", i)}
	}
	return tasks
}

func requireCode(t *testing.T, err error, code PrioritizeErrorCode) {
	t.Helper()
	var pe *PrioritizeError
	require.True(t, errors.As(err, &pe), "expected *PrioritizeError, got %T", err)
	assert.Equal(t, code, pe.Code)
}

func TestNewPrioritizeRequest_DefaultsImportance(t *testing.T) {
	req := NewPrioritizeRequest([]TaskInput{
		{Title: "unset"},
		{Title: "set", Importance: 5},
	})

	assert.Equal(t, domain.DefaultImportance, req.Tasks[0].Importance)
	assert.Equal(t, 5, req.Tasks[1].Importance)
	assert.Nil(t, req.Now)
	assert.False(t, req.ForceLocal)
}

func TestNewPrioritizeRequest_DoesNotMutateInput(t *testing.T) {
	in := []TaskInput{{Title: "a"}}
	NewPrioritizeRequest(in)
	assert.Equal(t, 0, in[0].Importance)
}

func TestValidate_EmptyBatch(t *testing.T) {
	err := NewPrioritizeRequest(nil).Validate()
	requireCode(t, err, ErrEmptyBatch)
}

func TestValidate_BatchSizeLimits(t *testing.T) {
	assert.NoError(t, NewPrioritizeRequest(tasksN(1)).Validate())
	assert.NoError(t, NewPrioritizeRequest(tasksN(MaxBatchSize)).Validate())

	err := NewPrioritizeRequest(tasksN(MaxBatchSize + 1)).Validate()
	requireCode(t, err, ErrBatchTooLarge)
}

func TestValidate_InvalidTasks(t *testing.T) {
	zero := 0
	cases := map[string]TaskInput{
		"blank title":         {Title: "  ", Importance: 3},
		"importance too low":  {Title: "x", Importance: -1},
		"importance too high": {Title: "x", Importance: 6},
		"zero estimate":       {Title: "x", Importance: 3, EstimatedMinutes: &zero},
	}
	for name, task := range cases {
		t.Run(name, func(t *testing.T) {
			req := PrioritizeRequest{Tasks: []TaskInput{task}}
			err := req.Validate()
			requireCode(t, err, ErrInvalidTask)
			assert.Contains(t, err.Error(), "tasks[0]")
		})
	}
}

func TestPrioritizeError_Message(t *testing.T) {
	err := &PrioritizeError{Code: ErrNoTasks, Message: "nothing to do"}
	assert.Equal(t, "NO_TASKS: nothing to do", err.Error())
}
