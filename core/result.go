package core

import (
	"fmt"
	"strings"
	"time"
)

// AgentStatus tracks the lifecycle of a single invocation attempt.
type AgentStatus string

const (
	// AgentPending means the agent has not started yet.
	AgentPending AgentStatus = "pending"
	// AgentRunning means the invocation is in flight.
	AgentRunning AgentStatus = "running"
	// AgentCompleted means the invocation returned an output.
	AgentCompleted AgentStatus = "completed"
	// AgentFailed means the invocation returned an error or timed out.
	AgentFailed AgentStatus = "failed"
	// AgentSkipped means the agent was deliberately not executed because of
	// an unmet dependency or condition. Not a failure.
	AgentSkipped AgentStatus = "skipped"
)

// OrchestrationStatus is the aggregate outcome of a workflow execution.
type OrchestrationStatus string

const (
	// StatusCompleted: no agent failed.
	StatusCompleted OrchestrationStatus = "completed"
	// StatusPartial: some agents succeeded and some failed.
	StatusPartial OrchestrationStatus = "partial"
	// StatusFailed: at least one agent failed and none succeeded.
	StatusFailed OrchestrationStatus = "failed"
)

// ErrorDetail captures a per-agent execution failure. Code is one of the
// Code* constants in this package.
type ErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Stack   string `json:"stack,omitempty"`
}

// ResultMetadata carries timing and bookkeeping for one invocation attempt.
// Duration is in milliseconds.
type ResultMetadata struct {
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	Duration        int64     `json:"duration"`
	Retries         int       `json:"retries"`
	ReceivedContext bool      `json:"receivedContext,omitempty"`
}

// AgentResult is the outcome of one invocation attempt. Exactly one of
// Output/Error is set when Status is completed/failed; neither is set when
// the agent was skipped.
type AgentResult struct {
	AgentID  string         `json:"agentId"`
	Status   AgentStatus    `json:"status"`
	Output   any            `json:"output,omitempty"`
	Error    *ErrorDetail   `json:"error,omitempty"`
	Metadata ResultMetadata `json:"metadata"`
}

// AgentOutput is the aggregated projection of a result used in
// AggregatedOutput, keeping callers independent of full AgentResult entries.
type AgentOutput struct {
	AgentID string      `json:"agentId"`
	Status  AgentStatus `json:"status"`
	Output  any         `json:"output,omitempty"`
}

// AggregatedOutput combines per-agent outputs with pattern-specific fields.
// Results is always in declaration order regardless of completion order.
type AggregatedOutput struct {
	Results []AgentOutput `json:"results"`

	// FinalOutputs holds, for the group-chat pattern, the last recorded
	// result per unique agent id.
	FinalOutputs map[string]AgentOutput `json:"finalOutputs,omitempty"`
	// Rounds is the number of group-chat rounds that ran.
	Rounds int `json:"rounds,omitempty"`
	// Batches is the number of concurrent batches that ran.
	Batches int `json:"batches,omitempty"`
	// Iterations is the number of handoff loop passes consumed.
	Iterations int `json:"iterations,omitempty"`
}

// RunMetadata describes one whole orchestration call. TotalDuration is in
// milliseconds.
type RunMetadata struct {
	OrchestrationID string      `json:"orchestrationId"`
	Pattern         PatternType `json:"pattern"`
	StartTime       time.Time   `json:"startTime"`
	EndTime         time.Time   `json:"endTime"`
	TotalDuration   int64       `json:"totalDuration"`
	Description     string      `json:"description,omitempty"`
}

// OrchestrationResult is the aggregate, JSON-serializable outcome of a
// workflow execution.
type OrchestrationResult struct {
	Status           OrchestrationStatus `json:"status"`
	AgentResults     []AgentResult       `json:"agentResults"`
	AggregatedOutput AggregatedOutput    `json:"aggregatedOutput"`
	Summary          string              `json:"summary"`
	Metadata         RunMetadata         `json:"metadata"`
}

// CountByStatus tallies completed, failed and skipped entries.
func CountByStatus(results []AgentResult) (completed, failed, skipped int) {
	for _, r := range results {
		switch r.Status {
		case AgentCompleted:
			completed++
		case AgentFailed:
			failed++
		case AgentSkipped:
			skipped++
		}
	}
	return completed, failed, skipped
}

// DeriveStatus maps per-agent outcomes onto the aggregate status:
// completed iff zero failures, failed iff zero successes and at least one
// failure, partial otherwise.
func DeriveStatus(results []AgentResult) OrchestrationStatus {
	completed, failed, _ := CountByStatus(results)
	switch {
	case failed == 0:
		return StatusCompleted
	case completed == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

// Summarize renders the human-readable counts line included in every result.
func Summarize(results []AgentResult, total time.Duration) string {
	completed, failed, skipped := CountByStatus(results)
	parts := []string{fmt.Sprintf("%d completed", completed)}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", skipped))
	}
	return fmt.Sprintf("%d agent(s): %s in %dms",
		len(results), strings.Join(parts, ", "), total.Milliseconds())
}
