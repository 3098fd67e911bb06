// Package invoker provides core.Invoker implementations: a deterministic
// simulated invoker for development and tests, and LLM-backed adapters in
// the openai and anthropic subpackages.
package invoker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lfaley/taskmesh/core"
)

// HandlerFunc produces the output of a simulated tool call.
type HandlerFunc func(ctx context.Context, inv core.Invocation) (any, error)

// Simulated is an in-memory Invoker with configurable latency, per-agent
// failures and handlers. It records every invocation it receives, which
// makes pattern behavior observable in tests without real transport.
type Simulated struct {
	mu       sync.Mutex
	delay    time.Duration
	failures map[string]error
	handlers map[string]HandlerFunc
	calls    []core.Invocation
}

// SimulatedOptions configures a Simulated invoker.
type SimulatedOptions struct {
	// Delay is the artificial latency applied to every call. It respects
	// context cancellation, so timeouts still fire against slow calls.
	Delay time.Duration
}

// NewSimulated creates a simulated invoker.
func NewSimulated(optFns ...func(o *SimulatedOptions)) *Simulated {
	opts := SimulatedOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Simulated{
		delay:    opts.Delay,
		failures: make(map[string]error),
		handlers: make(map[string]HandlerFunc),
	}
}

// FailWith makes every call to agentID return err.
func (s *Simulated) FailWith(agentID string, err error) *Simulated {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[agentID] = err
	return s
}

// Handle installs a custom handler for agentID.
func (s *Simulated) Handle(agentID string, fn HandlerFunc) *Simulated {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[agentID] = fn
	return s
}

// Invoke implements core.Invoker.
func (s *Simulated) Invoke(ctx context.Context, inv core.Invocation) (any, error) {
	s.mu.Lock()
	s.calls = append(s.calls, inv)
	delay := s.delay
	failure := s.failures[inv.AgentID]
	handler := s.handlers[inv.AgentID]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if failure != nil {
		return nil, failure
	}
	if handler != nil {
		return handler(ctx, inv)
	}
	return map[string]any{
		"agentId":   inv.AgentID,
		"toolName":  inv.ToolName,
		"args":      inv.Args,
		"simulated": true,
		"message":   fmt.Sprintf("simulated output of %s/%s", inv.AgentID, inv.ToolName),
	}, nil
}

// Calls returns a copy of every recorded invocation in arrival order.
func (s *Simulated) Calls() []core.Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Invocation, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns the number of invocations received so far.
func (s *Simulated) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
