package llm

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskPrioritize TaskType = "prioritize"
)

// Provider selects the remote backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderAnthropic Provider = "anthropic"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// BreakerConfig tunes the circuit breaker placed in front of the client.
type BreakerConfig struct {
	Enabled          bool
	FailureThreshold uint32
	OpenTimeoutMs    int
	HalfOpenRequests uint32
}

// Config holds all configuration for the LLM subsystem. It is built once by
// the caller and passed by value into client constructors.
type Config struct {
	Enabled    bool
	LogCalls   bool
	Provider   Provider
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
	Breaker    BreakerConfig
}

// DefaultConfig returns a Config with sensible defaults.
// LLM is disabled by default.
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		LogCalls:   false,
		Provider:   ProviderOllama,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  10000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskPrioritize: {Temperature: 0.7, MaxTokens: 1000, TimeoutMs: 15000},
		},
		Breaker: BreakerConfig{
			Enabled:          true,
			FailureThreshold: 3,
			OpenTimeoutMs:    30000,
			HalfOpenRequests: 1,
		},
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// taskParams resolves temperature and token limit, letting the request override.
func (c Config) taskParams(req GenerateRequest) (float64, int) {
	tc := c.Tasks[req.Task]
	temp := tc.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := tc.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	if maxTok <= 0 {
		maxTok = 1024
	}
	return temp, maxTok
}

func (c Config) retries(req GenerateRequest) int {
	if req.MaxRetries != nil {
		return *req.MaxRetries
	}
	return c.MaxRetries
}
