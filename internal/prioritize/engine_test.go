package prioritize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/llm"
	"github.com/alexanderramin/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func dueIn(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func sampleRequest() contract.PrioritizeRequest {
	req := contract.NewPrioritizeRequest([]contract.TaskInput{
		{Title: "Write docs", EstimatedMinutes: domain.IntPtr(90), Importance: 2},
		{Title: "Ship report", DueAt: dueIn(30 * time.Minute), EstimatedMinutes: domain.IntPtr(20), Importance: 5},
		{Title: "Inbox zero"},
	})
	now := testNow
	req.Now = &now
	return req
}

func newTestEngine(remote Strategy) (*Engine, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewEngine(remote, logger, WithClock(func() time.Time { return testNow })), &buf
}

const validRemoteJSON = `{
  "results": [
    {"title": "Inbox zero", "score": 0.4, "rationale": "cheap"},
    {"title": "Ship report", "score": 0.9, "rationale": "deadline in 30 minutes"},
    {"title": "Write docs", "score": 0.2, "rationale": "can wait"}
  ],
  "plan": ["09:00-09:30 Ship report", "09:45-10:00 Inbox zero"]
}`

func TestEngine_NoRemote_RanksLocally(t *testing.T) {
	engine, logs := newTestEngine(nil)

	resp := engine.Prioritize(context.Background(), sampleRequest())

	require.Len(t, resp.Results, 3)
	assert.Equal(t, contract.StrategyLocal, resp.Strategy)
	assert.False(t, resp.Degraded)
	assert.Equal(t, "Ship report", resp.Results[0].Title)
	assert.InDelta(t, 0.945, resp.Results[0].Score, 1e-9)
	assert.Equal(t, "imminent deadline; high importance; quick win.", resp.Results[0].Rationale)
	assert.Len(t, resp.Plan, 3)
	assert.Equal(t, "09:00-10:00 Ship report", resp.Plan[0])
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, testNow, resp.GeneratedAt)
	assert.Empty(t, logs.String())
	assert.Equal(t, Stats{Local: 1}, engine.Stats())
}

func TestEngine_RemoteSuccess(t *testing.T) {
	fake := &testutil.FakeLLMClient{Text: validRemoteJSON}
	engine, logs := newTestEngine(NewRemoteStrategy(fake, time.Second))

	resp := engine.Prioritize(context.Background(), sampleRequest())

	assert.Equal(t, contract.StrategyRemote, resp.Strategy)
	assert.False(t, resp.Degraded)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "Ship report", resp.Results[0].Title)
	assert.Equal(t, 0.9, resp.Results[0].Score)
	assert.Equal(t, []string{"09:00-09:30 Ship report", "09:45-10:00 Inbox zero"}, resp.Plan)
	assert.Empty(t, logs.String())
	assert.Equal(t, Stats{Remote: 1}, engine.Stats())

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, llm.TaskPrioritize, reqs[0].Task)
	require.NotNil(t, reqs[0].MaxRetries)
	assert.Equal(t, 0, *reqs[0].MaxRetries)
	assert.Contains(t, reqs[0].UserPrompt, "- 2. Ship report (due: 2025-03-15T12:30:00Z, effort: 20 min, importance: 5/5)")
	assert.Contains(t, reqs[0].UserPrompt, "- 3. Inbox zero (due: no deadline, effort: unknown min, importance: 3/5)")
}

func TestEngine_FallsBackOnRemoteFailure(t *testing.T) {
	cases := []struct {
		name     string
		client   *testutil.FakeLLMClient
		wantCode string
	}{
		{"unavailable", &testutil.FakeLLMClient{Err: llm.ErrUnavailable}, "UNAVAILABLE"},
		{"circuit open", &testutil.FakeLLMClient{Err: llm.ErrCircuitOpen}, "CIRCUIT_OPEN"},
		{"not json", &testutil.FakeLLMClient{Text: "I think you should ship the report first."}, "INVALID_OUTPUT"},
		{"truncated json", &testutil.FakeLLMClient{Text: `{"results": [{"title": "Ship report"`}, "INVALID_OUTPUT"},
		{"missing plan", &testutil.FakeLLMClient{Text: `{"results": [{"title": "a", "score": 0.5, "rationale": "r"}]}`}, "INVALID_OUTPUT"},
		{"missing results", &testutil.FakeLLMClient{Text: `{"plan": []}`}, "INVALID_OUTPUT"},
		{"score out of range", &testutil.FakeLLMClient{Text: `{"results": [{"title": "a", "score": 7, "rationale": "r"}], "plan": []}`}, "INVALID_OUTPUT"},
		{"missing score", &testutil.FakeLLMClient{Text: `{"results": [{"title": "a", "rationale": "r"}], "plan": []}`}, "INVALID_OUTPUT"},
		{"empty rationale", &testutil.FakeLLMClient{Text: `{"results": [{"title": "a", "score": 0.5, "rationale": " "}], "plan": []}`}, "INVALID_OUTPUT"},
		{"no results for batch", &testutil.FakeLLMClient{Text: `{"results": [], "plan": ["a", "b", "c", "d", "e", "f", "g"]}`}, "INVALID_OUTPUT"},
		{"fewer results than tasks", &testutil.FakeLLMClient{Text: `{"results": [{"title": "Ship report", "score": 0.9, "rationale": "r"}], "plan": []}`}, "INVALID_OUTPUT"},
		{"invented titles", &testutil.FakeLLMClient{Text: `{"results": [
			{"title": "Nope", "score": 0.5, "rationale": "r"},
			{"title": "Nope", "score": 0.4, "rationale": "r"},
			{"title": "Ship report", "score": 0.9, "rationale": "r"}], "plan": []}`}, "INVALID_OUTPUT"},
		{"duplicated title", &testutil.FakeLLMClient{Text: `{"results": [
			{"title": "Ship report", "score": 0.9, "rationale": "r"},
			{"title": "Ship report", "score": 0.8, "rationale": "r"},
			{"title": "Write docs", "score": 0.2, "rationale": "r"}], "plan": []}`}, "INVALID_OUTPUT"},
		{"plan too long", &testutil.FakeLLMClient{Text: `{"results": [
			{"title": "Ship report", "score": 0.9, "rationale": "r"},
			{"title": "Inbox zero", "score": 0.4, "rationale": "r"},
			{"title": "Write docs", "score": 0.2, "rationale": "r"}], "plan": ["1", "2", "3", "4", "5", "6"]}`}, "INVALID_OUTPUT"},
		{"unexpected error", &testutil.FakeLLMClient{Err: errors.New("boom")}, "UNKNOWN"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine, logs := newTestEngine(NewRemoteStrategy(tc.client, time.Second))
			local, _ := newTestEngine(nil)

			resp := engine.Prioritize(context.Background(), sampleRequest())
			want := local.Prioritize(context.Background(), sampleRequest())

			assert.Equal(t, contract.StrategyLocal, resp.Strategy)
			assert.True(t, resp.Degraded)
			assert.Equal(t, want.Results, resp.Results)
			assert.Equal(t, want.Plan, resp.Plan)
			assert.Equal(t, 1, tc.client.Calls(), "remote is attempted exactly once")

			out := logs.String()
			assert.Contains(t, out, "level=WARN")
			assert.Contains(t, out, "remote prioritization failed, falling back")
			assert.Contains(t, out, "error_code="+tc.wantCode)
			assert.Contains(t, out, "task_count=3")
			assert.Equal(t, Stats{Local: 1, Fallbacks: 1}, engine.Stats())
		})
	}
}

func TestEngine_HungRemoteTimesOut(t *testing.T) {
	fake := &testutil.FakeLLMClient{Handler: testutil.BlockingLLM()}
	engine, logs := newTestEngine(NewRemoteStrategy(fake, 50*time.Millisecond))

	start := time.Now()
	resp := engine.Prioritize(context.Background(), sampleRequest())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, contract.StrategyLocal, resp.Strategy)
	assert.True(t, resp.Degraded)
	assert.Contains(t, logs.String(), "error_code=TIMEOUT")
}

func TestEngine_RemotePanicIsRecovered(t *testing.T) {
	fake := &testutil.FakeLLMClient{Handler: func(context.Context, llm.GenerateRequest) (*llm.GenerateResponse, error) {
		panic("nil map write")
	}}
	engine, _ := newTestEngine(NewRemoteStrategy(fake, time.Second))

	var resp *contract.PrioritizeResponse
	require.NotPanics(t, func() {
		resp = engine.Prioritize(context.Background(), sampleRequest())
	})
	assert.Equal(t, contract.StrategyLocal, resp.Strategy)
	assert.True(t, resp.Degraded)
}

func TestEngine_ForceLocalSkipsRemote(t *testing.T) {
	fake := &testutil.FakeLLMClient{Text: validRemoteJSON}
	engine, _ := newTestEngine(NewRemoteStrategy(fake, time.Second))

	req := sampleRequest()
	req.ForceLocal = true
	resp := engine.Prioritize(context.Background(), req)

	assert.Equal(t, contract.StrategyLocal, resp.Strategy)
	assert.False(t, resp.Degraded)
	assert.Equal(t, 0, fake.Calls())
}

func TestEngine_UsesClockWhenRequestHasNoNow(t *testing.T) {
	engine, _ := newTestEngine(nil)
	req := contract.NewPrioritizeRequest([]contract.TaskInput{
		{Title: "due in 2h", DueAt: dueIn(2 * time.Hour)},
	})

	resp := engine.Prioritize(context.Background(), req)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "imminent deadline.", resp.Results[0].Rationale)
	assert.Equal(t, testNow, resp.GeneratedAt)
}

func TestEngine_PlanLengthIsMinOfBatchAndFive(t *testing.T) {
	engine, _ := newTestEngine(nil)
	for n := 1; n <= 8; n++ {
		tasks := make([]contract.TaskInput, n)
		for i := range tasks {
			tasks[i] = contract.TaskInput{Title: fmt.Sprintf("task-%d", i), Importance: 1 + i%5}
		}
		resp := engine.Prioritize(context.Background(), contract.NewPrioritizeRequest(tasks))
		assert.Len(t, resp.Results, n)
		assert.Len(t, resp.Plan, min(n, 5))
	}
}

func TestEngine_ConcurrentCallsAreIndependent(t *testing.T) {
	var calls atomic.Int32
	fake := &testutil.FakeLLMClient{Handler: func(context.Context, llm.GenerateRequest) (*llm.GenerateResponse, error) {
		if calls.Add(1)%2 == 0 {
			return nil, llm.ErrUnavailable
		}
		return &llm.GenerateResponse{Text: validRemoteJSON}, nil
	}}
	engine, _ := newTestEngine(NewRemoteStrategy(fake, time.Second))

	const workers = 32
	var wg sync.WaitGroup
	responses := make([]*contract.PrioritizeResponse, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i] = engine.Prioritize(context.Background(), sampleRequest())
		}(i)
	}
	wg.Wait()

	ids := make(map[string]bool)
	for _, resp := range responses {
		require.NotNil(t, resp)
		assert.False(t, ids[resp.RequestID], "request IDs must be unique")
		ids[resp.RequestID] = true
		require.Len(t, resp.Results, 3)
		assert.Equal(t, "Ship report", resp.Results[0].Title)
	}
	assert.Equal(t, Stats{Remote: workers / 2, Local: workers / 2, Fallbacks: workers / 2}, engine.Stats())
}
