package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/taskflow/internal/llm"
)

// FakeLLMClient is a scriptable llm.LLMClient. Each Generate call returns
// Text/Err unless Handler is set, in which case Handler decides.
type FakeLLMClient struct {
	Text    string
	Err     error
	Handler func(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error)

	mu       sync.Mutex
	requests []llm.GenerateRequest
}

func (f *FakeLLMClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.Handler != nil {
		return f.Handler(ctx, req)
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return &llm.GenerateResponse{Text: f.Text, Model: "fake"}, nil
}

// Requests returns a copy of every request received so far.
func (f *FakeLLMClient) Requests() []llm.GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]llm.GenerateRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// Calls reports how many times Generate was invoked.
func (f *FakeLLMClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// BlockingLLM returns a handler that waits for the context to end and
// reports its error, simulating a hung model server.
func BlockingLLM() func(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return func(ctx context.Context, _ llm.GenerateRequest) (*llm.GenerateResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
}
