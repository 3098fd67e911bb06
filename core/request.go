package core

import "time"

// PatternType identifies one of the four orchestration disciplines.
type PatternType string

const (
	// PatternSequential executes agents strictly in declaration order.
	PatternSequential PatternType = "sequential"
	// PatternConcurrent executes agents in bounded parallel batches.
	PatternConcurrent PatternType = "concurrent"
	// PatternHandoff executes agents with conditional skip/stop transfer rules.
	PatternHandoff PatternType = "handoff"
	// PatternGroupChat executes agents in fixed discussion rounds.
	PatternGroupChat PatternType = "group-chat"
)

// PatternTypes returns all supported pattern types in stable order.
func PatternTypes() []PatternType {
	return []PatternType{PatternSequential, PatternConcurrent, PatternHandoff, PatternGroupChat}
}

// Known reports whether t names a supported pattern.
func (t PatternType) Known() bool {
	switch t {
	case PatternSequential, PatternConcurrent, PatternHandoff, PatternGroupChat:
		return true
	}
	return false
}

// DefaultTimeout applies when an AgentConfig does not declare its own timeout.
const DefaultTimeout = 30 * time.Second

// AgentConfig declares one unit of work inside an orchestration request.
//
// AgentID must name a registered agent and ToolName a tool that agent offers;
// both are checked before any execution starts. The remaining fields shape
// scheduling: DependsOn/RequiresSuccess and Condition drive skip decisions,
// HandoffTo declares a transfer target for the handoff pattern, and Timeout
// bounds the invocation in milliseconds.
type AgentConfig struct {
	AgentID  string         `json:"agentId" yaml:"agentId"`
	ToolName string         `json:"toolName" yaml:"toolName"`
	Args     map[string]any `json:"args,omitempty" yaml:"args,omitempty"`

	// Condition is a declarative predicate over prior results. When it
	// evaluates to false the agent is skipped, not failed.
	Condition *Condition `json:"condition,omitempty" yaml:"condition,omitempty"`

	// DependsOn names another agent in the same request. When that agent has
	// already run and RequiresSuccess is set, a non-completed dependency result
	// causes this agent to be skipped. A dependency that has not run yet never
	// causes a skip.
	DependsOn       string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	RequiresSuccess bool   `json:"requiresSuccess,omitempty" yaml:"requiresSuccess,omitempty"`

	// HandoffTo names a transfer target for the handoff pattern. The field is
	// validated for referential existence; see pattern.Handoff for the
	// routing contract.
	HandoffTo string `json:"handoffTo,omitempty" yaml:"handoffTo,omitempty"`

	// Timeout is the invocation deadline in milliseconds. Zero means
	// DefaultTimeout.
	Timeout int64 `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// TimeoutDuration returns the effective invocation deadline.
func (c AgentConfig) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.Timeout) * time.Millisecond
}

// RequestConfig tunes execution behavior shared by all patterns.
type RequestConfig struct {
	// ContinueOnError keeps the pattern running past failed agents. Left nil,
	// each pattern applies its own default (false everywhere except
	// group-chat, which defaults to true).
	ContinueOnError *bool `json:"continueOnError,omitempty" yaml:"continueOnError,omitempty"`

	// MaxConcurrency bounds in-flight invocations for the concurrent pattern.
	// Zero or negative means unbounded (all agents in one batch).
	MaxConcurrency int `json:"maxConcurrency,omitempty" yaml:"maxConcurrency,omitempty"`

	// PassResults feeds each invocation the accumulated prior results.
	PassResults bool `json:"passResults,omitempty" yaml:"passResults,omitempty"`

	// AggregateResults controls whether AggregatedOutput carries the per-agent
	// output list. Left nil it defaults to true; result status, summary and
	// metadata are always produced either way.
	AggregateResults *bool `json:"aggregateResults,omitempty" yaml:"aggregateResults,omitempty"`
}

// ContinueOnErrorOr resolves the tri-state ContinueOnError flag against a
// pattern default. Safe on a nil receiver.
func (c *RequestConfig) ContinueOnErrorOr(def bool) bool {
	if c == nil || c.ContinueOnError == nil {
		return def
	}
	return *c.ContinueOnError
}

// Aggregate reports whether the per-agent output list should be included in
// AggregatedOutput. Safe on a nil receiver.
func (c *RequestConfig) Aggregate() bool {
	if c == nil || c.AggregateResults == nil {
		return true
	}
	return *c.AggregateResults
}

// PassPriorResults reports whether prior results should be handed to each
// invocation. Safe on a nil receiver.
func (c *RequestConfig) PassPriorResults() bool {
	return c != nil && c.PassResults
}

// Concurrency returns the configured batch size, or 0 for unbounded.
// Safe on a nil receiver.
func (c *RequestConfig) Concurrency() int {
	if c == nil || c.MaxConcurrency < 0 {
		return 0
	}
	return c.MaxConcurrency
}

// OrchestrationRequest is the complete declarative description of one
// workflow execution.
type OrchestrationRequest struct {
	Pattern     PatternType    `json:"pattern" yaml:"pattern"`
	Agents      []AgentConfig  `json:"agents" yaml:"agents"`
	Config      *RequestConfig `json:"config,omitempty" yaml:"config,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
}

// HasAgent reports whether the request declares an agent with the given id.
func (r *OrchestrationRequest) HasAgent(agentID string) bool {
	for _, a := range r.Agents {
		if a.AgentID == agentID {
			return true
		}
	}
	return false
}
