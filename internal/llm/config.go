package llm

import (
	"errors"
	"fmt"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskExtract  TaskType = "extract"
	TaskAllocate TaskType = "allocate"
)

// Provider selects the wire protocol used to reach the model.
type Provider string

const (
	ProviderGroq   Provider = "groq"
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

const (
	GroqEndpoint   = "https://api.groq.com/openai/v1"
	GroqModel      = "llama-3.3-70b-versatile"
	OllamaEndpoint = "http://localhost:11434"
	OllamaModel    = "llama3.2"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   Provider
	LogCalls   bool
	Endpoint   string
	Model      string
	APIKey     string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns the Groq configuration. The API key is left empty;
// callers supply it from the environment.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderGroq,
		Endpoint:   GroqEndpoint,
		Model:      GroqModel,
		TimeoutMs:  60000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskExtract:  {Temperature: 0.1, MaxTokens: 8192, TimeoutMs: 90000},
			TaskAllocate: {Temperature: 0.1, MaxTokens: 4096, TimeoutMs: 60000},
		},
	}
}

// WithProviderDefaults fills Endpoint and Model for the provider when unset.
func (c LLMConfig) WithProviderDefaults() LLMConfig {
	switch c.Provider {
	case ProviderOllama:
		if c.Endpoint == "" {
			c.Endpoint = OllamaEndpoint
		}
		if c.Model == "" {
			c.Model = OllamaModel
		}
	case ProviderGroq:
		if c.Endpoint == "" {
			c.Endpoint = GroqEndpoint
		}
		if c.Model == "" {
			c.Model = GroqModel
		}
	}
	return c
}

// Validate checks structural settings. A missing API key is not reported
// here; it surfaces on the first Generate call so the rest of the
// application can run without oracle credentials.
func (c LLMConfig) Validate() error {
	var errs []error
	switch c.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderOllama:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}
	if c.Endpoint == "" {
		errs = append(errs, errors.New("endpoint is required"))
	}
	if c.Model == "" {
		errs = append(errs, errors.New("model is required"))
	}
	if c.TimeoutMs <= 0 {
		errs = append(errs, errors.New("timeout_ms must be positive"))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, errors.New("max_retries must not be negative"))
	}
	return errors.Join(errs...)
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// SetTaskTimeout overrides the timeout for one task. Non-positive values
// are ignored.
func (c *LLMConfig) SetTaskTimeout(task TaskType, ms int) {
	if ms <= 0 {
		return
	}
	if c.Tasks == nil {
		c.Tasks = map[TaskType]TaskConfig{}
	}
	tc := c.Tasks[task]
	tc.TimeoutMs = ms
	c.Tasks[task] = tc
}
