package contract

import (
	"time"

	"github.com/alexanderramin/taskflow/internal/domain"
)

// MaxBatchSize is the largest number of tasks accepted in one prioritization call.
const MaxBatchSize = 50

// TaskInput is one task description submitted for prioritization. The title
// doubles as the correlation key between input and result.
type TaskInput struct {
	Title            string     `json:"title" yaml:"title"`
	Description      string     `json:"description,omitempty" yaml:"description,omitempty"`
	DueAt            *time.Time `json:"due_at,omitempty" yaml:"due_at,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty" yaml:"estimated_minutes,omitempty"`
	Importance       int        `json:"importance" yaml:"importance"`
}

// ScoreResult is the ranked outcome for a single task.
type ScoreResult struct {
	Title     string  `json:"title"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// Strategy names the scoring path that produced a response.
type Strategy string

const (
	StrategyRemote Strategy = "remote"
	StrategyLocal  Strategy = "local"
)

type PrioritizeRequest struct {
	Tasks      []TaskInput
	Now        *time.Time
	ForceLocal bool
}

// NewPrioritizeRequest builds a request and fills the default importance on
// tasks that left it unset.
func NewPrioritizeRequest(tasks []TaskInput) PrioritizeRequest {
	normalized := make([]TaskInput, len(tasks))
	for i, t := range tasks {
		if t.Importance == 0 {
			t.Importance = domain.DefaultImportance
		}
		normalized[i] = t
	}
	return PrioritizeRequest{Tasks: normalized}
}

type PrioritizeResponse struct {
	RequestID   string        `json:"request_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Strategy    Strategy      `json:"strategy"`
	Degraded    bool          `json:"degraded"`
	Results     []ScoreResult `json:"results"`
	Plan        []string      `json:"plan"`
}

// SavedRequest asks for prioritization of an owner's stored, unfinished tasks.
type SavedRequest struct {
	OwnerID    string
	ProjectID  string // empty = all projects
	Now        *time.Time
	ForceLocal bool
}
