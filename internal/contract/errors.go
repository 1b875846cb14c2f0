package contract

import "fmt"

type PrioritizeErrorCode string

const (
	ErrEmptyBatch    PrioritizeErrorCode = "EMPTY_BATCH"
	ErrBatchTooLarge PrioritizeErrorCode = "BATCH_TOO_LARGE"
	ErrInvalidTask   PrioritizeErrorCode = "INVALID_TASK"
	ErrNoTasks       PrioritizeErrorCode = "NO_TASKS"
	ErrInternalError PrioritizeErrorCode = "INTERNAL_ERROR"
)

type PrioritizeError struct {
	Code    PrioritizeErrorCode
	Message string
}

func (e *PrioritizeError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func newPrioritizeError(code PrioritizeErrorCode, format string, args ...any) *PrioritizeError {
	return &PrioritizeError{Code: code, Message: fmt.Sprintf(format, args...)}
}
