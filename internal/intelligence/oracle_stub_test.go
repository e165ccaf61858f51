package intelligence

import (
	"context"

	"github.com/alexanderramin/apo/internal/llm"
)

// stubOracle returns a canned response and records the last request.
type stubOracle struct {
	response string
	err      error
	calls    int
	last     llm.GenerateRequest
}

func (s *stubOracle) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.GenerateResponse{Text: s.response, Model: "stub-model"}, nil
}

func (s *stubOracle) Available(context.Context) bool { return s.err == nil }
