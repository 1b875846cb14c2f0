package prioritize

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/llm"
	"github.com/alexanderramin/taskflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteStrategy_ToleratesFencedOutput(t *testing.T) {
	fake := &testutil.FakeLLMClient{Text: "Here is the plan:\n```json\n" + validRemoteJSON + "\n```\nGood luck!"}
	s := NewRemoteStrategy(fake, time.Second)

	out, err := s.Attempt(context.Background(), Batch{Tasks: sampleRequest().Tasks, Now: testNow})

	require.NoError(t, err)
	assert.Equal(t, contract.StrategyRemote, out.Strategy)
	assert.Equal(t, []string{"Ship report", "Inbox zero", "Write docs"},
		[]string{out.Results[0].Title, out.Results[1].Title, out.Results[2].Title})
}

func TestRemoteStrategy_EmptyPlanIsAccepted(t *testing.T) {
	fake := &testutil.FakeLLMClient{Text: `{"results": [{"title": "a", "score": 1, "rationale": "r"}], "plan": []}`}
	s := NewRemoteStrategy(fake, time.Second)

	out, err := s.Attempt(context.Background(), Batch{Tasks: []contract.TaskInput{{Title: "a", Importance: 3}}, Now: testNow})

	require.NoError(t, err)
	assert.Empty(t, out.Plan)
	assert.NotNil(t, out.Plan)
}

func TestRemoteStrategy_DuplicateInputTitlesNeedOneResultEach(t *testing.T) {
	tasks := []contract.TaskInput{
		{Title: "Review", Importance: 3},
		{Title: "Review", Importance: 4},
	}
	batch := Batch{Tasks: tasks, Now: testNow}

	once := &testutil.FakeLLMClient{Text: `{"results": [{"title": "Review", "score": 0.5, "rationale": "r"}], "plan": []}`}
	_, err := NewRemoteStrategy(once, time.Second).Attempt(context.Background(), batch)
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)

	twice := &testutil.FakeLLMClient{Text: `{"results": [
		{"title": "Review", "score": 0.5, "rationale": "r"},
		{"title": "Review", "score": 0.7, "rationale": "r"}], "plan": ["09:00-10:00 Review"]}`}
	out, err := NewRemoteStrategy(twice, time.Second).Attempt(context.Background(), batch)
	require.NoError(t, err)
	assert.Len(t, out.Results, 2)
	assert.Equal(t, 0.7, out.Results[0].Score)
}

func TestRemoteStrategy_ContextDeadlineMapsToTimeout(t *testing.T) {
	fake := &testutil.FakeLLMClient{Handler: testutil.BlockingLLM()}
	s := NewRemoteStrategy(fake, 20*time.Millisecond)

	_, err := s.Attempt(context.Background(), Batch{Tasks: sampleRequest().Tasks, Now: testNow})

	assert.ErrorIs(t, err, llm.ErrTimeout)
	assert.Equal(t, "TIMEOUT", llm.ErrorCode(err))
}

func TestLocalStrategy_NeverFails(t *testing.T) {
	s := NewLocalStrategy()
	assert.Equal(t, contract.StrategyLocal, s.Name())

	out, err := s.Attempt(context.Background(), Batch{Tasks: sampleRequest().Tasks, Now: testNow})

	require.NoError(t, err)
	require.Len(t, out.Results, 3)
	for i := 1; i < len(out.Results); i++ {
		assert.GreaterOrEqual(t, out.Results[i-1].Score, out.Results[i].Score)
	}
}

func TestLocalStrategy_TiesKeepInputOrder(t *testing.T) {
	tasks := []contract.TaskInput{
		{Title: "first", Importance: 3},
		{Title: "second", Importance: 3},
		{Title: "third", Importance: 3},
	}

	out := NewLocalStrategy().Rank(Batch{Tasks: tasks, Now: testNow})

	assert.Equal(t, "first", out.Results[0].Title)
	assert.Equal(t, "second", out.Results[1].Title)
	assert.Equal(t, "third", out.Results[2].Title)
}
