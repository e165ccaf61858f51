package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default

	// JSONMode asks the provider to constrain output to a single JSON value.
	JSONMode bool
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the model server is reachable.
	Available(ctx context.Context) bool
}

// NewClient builds the client for cfg.Provider.
func NewClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	switch cfg.Provider {
	case ProviderGroq, ProviderOpenAI:
		return NewOpenAIClient(cfg, observer), nil
	case ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// callParams is one provider request after task defaults are applied.
type callParams struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

type callResult struct {
	Text  string
	Model string
}

// roundTrip performs a single provider request.
type roundTrip func(ctx context.Context, p callParams) (*callResult, error)

// baseClient holds the retry, timeout and observation behaviour shared by
// every provider.
type baseClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

func newBaseClient(cfg LLMConfig, observer Observer) baseClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return baseClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *baseClient) params(req GenerateRequest) callParams {
	taskCfg := c.cfg.Tasks[req.Task]
	p := callParams{
		System:      req.SystemPrompt,
		User:        req.UserPrompt,
		Temperature: taskCfg.Temperature,
		MaxTokens:   taskCfg.MaxTokens,
		JSONMode:    req.JSONMode,
	}
	if req.Temperature != nil {
		p.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		p.MaxTokens = *req.MaxTokens
	}
	return p
}

func (c *baseClient) generate(ctx context.Context, req GenerateRequest, rt roundTrip) (*GenerateResponse, error) {
	start := time.Now()
	params := c.params(req)

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		resp, err := rt(ctx, params)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			model := resp.Model
			if model == "" {
				model = c.cfg.Model
			}
			c.observer.OnCallComplete(LLMCallEvent{
				Task:      req.Task,
				Model:     model,
				LatencyMs: latency,
				Success:   true,
			})
			return &GenerateResponse{
				Text:      resp.Text,
				Model:     model,
				LatencyMs: latency,
			}, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout
		if ctx.Err() != nil {
			break
		}
		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			break
		}
	}

	var finalErr error
	switch {
	case ctx.Err() != nil:
		finalErr = ErrTimeout
	case isConnectionError(lastErr):
		finalErr = ErrUnavailable
	default:
		finalErr = fmt.Errorf("%w: %w", ErrRetryExhausted, lastErr)
	}
	c.fail(req.Task, start, finalErr)
	return nil, finalErr
}

func (c *baseClient) fail(task TaskType, start time.Time, err error) {
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      task,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(err),
	})
}

func (c *baseClient) probe(ctx context.Context, url string, header http.Header) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrMissingAPIKey):
		return "MISSING_API_KEY"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
