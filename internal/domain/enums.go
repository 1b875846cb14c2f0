package domain

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskBlocked    TaskStatus = "blocked"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[TaskStatus]bool{
	TaskTodo: true, TaskInProgress: true, TaskDone: true, TaskBlocked: true,
}

type TaskEventType string

const (
	EventCreated       TaskEventType = "created"
	EventUpdated       TaskEventType = "updated"
	EventStatusChanged TaskEventType = "status_changed"
	EventPrioritized   TaskEventType = "prioritized"
	EventDeleted       TaskEventType = "deleted"
)

// Importance bounds shared by stored tasks and prioritization input.
const (
	MinImportance     = 1
	MaxImportance     = 5
	DefaultImportance = 3
)
