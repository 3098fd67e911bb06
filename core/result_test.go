package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []AgentStatus
		want     OrchestrationStatus
	}{
		{"all completed", []AgentStatus{AgentCompleted, AgentCompleted}, StatusCompleted},
		{"no results", nil, StatusCompleted},
		{"only skips", []AgentStatus{AgentSkipped, AgentSkipped}, StatusCompleted},
		{"mixed", []AgentStatus{AgentCompleted, AgentFailed}, StatusPartial},
		{"all failed", []AgentStatus{AgentFailed, AgentFailed}, StatusFailed},
		{"failed and skipped", []AgentStatus{AgentFailed, AgentSkipped}, StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]AgentResult, len(tt.statuses))
			for i, s := range tt.statuses {
				results[i] = AgentResult{AgentID: "a", Status: s}
			}
			assert.Equal(t, tt.want, DeriveStatus(results))
		})
	}
}

func TestSummarize(t *testing.T) {
	results := []AgentResult{
		{AgentID: "a", Status: AgentCompleted},
		{AgentID: "b", Status: AgentFailed},
		{AgentID: "c", Status: AgentSkipped},
	}
	s := Summarize(results, 204*time.Millisecond)
	assert.Contains(t, s, "3 agent(s)")
	assert.Contains(t, s, "1 completed")
	assert.Contains(t, s, "1 failed")
	assert.Contains(t, s, "1 skipped")
	assert.Contains(t, s, "204ms")
}

func TestRequestConfig_Defaults(t *testing.T) {
	var cfg *RequestConfig

	assert.False(t, cfg.ContinueOnErrorOr(false))
	assert.True(t, cfg.ContinueOnErrorOr(true))
	assert.False(t, cfg.PassPriorResults())
	assert.Zero(t, cfg.Concurrency())
	assert.True(t, cfg.Aggregate())

	no := false
	cfg = &RequestConfig{ContinueOnError: &no, MaxConcurrency: 4, AggregateResults: &no}
	assert.False(t, cfg.ContinueOnErrorOr(true))
	assert.Equal(t, 4, cfg.Concurrency())
	assert.False(t, cfg.Aggregate())
}

func TestAgentConfig_TimeoutDuration(t *testing.T) {
	assert.Equal(t, DefaultTimeout, AgentConfig{}.TimeoutDuration())
	assert.Equal(t, 250*time.Millisecond, AgentConfig{Timeout: 250}.TimeoutDuration())
}

func TestPatternType_Known(t *testing.T) {
	for _, p := range PatternTypes() {
		assert.True(t, p.Known())
	}
	assert.False(t, PatternType("round-robin").Known())
}
