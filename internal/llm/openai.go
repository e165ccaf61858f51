package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// openAIClient implements LLMClient for OpenAI-compatible chat completion
// APIs such as Groq.
type openAIClient struct {
	baseClient
}

// NewOpenAIClient creates an LLMClient for an OpenAI-compatible endpoint.
// cfg.Endpoint is the API base, e.g. https://api.groq.com/openai/v1.
func NewOpenAIClient(cfg LLMConfig, observer Observer) LLMClient {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	return &openAIClient{baseClient: newBaseClient(cfg, observer)}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *openAIClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if c.cfg.APIKey == "" {
		c.fail(req.Task, time.Now(), ErrMissingAPIKey)
		return nil, ErrMissingAPIKey
	}
	return c.generate(ctx, req, c.doRequest)
}

func (c *openAIClient) doRequest(ctx context.Context, p callParams) (*callResult, error) {
	body := chatRequest{
		Model:       c.cfg.Model,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	}
	if p.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: p.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: p.User})
	if p.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &statusError{Provider: string(c.cfg.Provider), StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response has no choices", ErrInvalidOutput)
	}
	return &callResult{Text: resp.Choices[0].Message.Content, Model: resp.Model}, nil
}

func (c *openAIClient) Available(ctx context.Context) bool {
	if c.cfg.APIKey == "" {
		return false
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.cfg.APIKey)
	return c.probe(ctx, strings.TrimRight(c.cfg.Endpoint, "/")+"/models", h)
}
