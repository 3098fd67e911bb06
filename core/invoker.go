package core

import "context"

// Invocation is a single tool call handed to the Invoker. Args is the opaque
// argument map declared in the workflow; Context carries prior results or the
// group-chat discussion context when the pattern passes them, nil otherwise.
type Invocation struct {
	AgentID  string         `json:"agentId"`
	ToolName string         `json:"toolName"`
	Args     map[string]any `json:"args,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
}

// Invoker is the injected capability that performs the actual work of an
// agent tool call. The engine never performs real I/O itself: every pattern
// funnels each execution through this single boundary.
//
// Implementations should honor ctx cancellation; the engine additionally
// races every call against the per-agent timeout, so a call that ignores ctx
// is still reported as failed once the deadline passes.
type Invoker interface {
	Invoke(ctx context.Context, inv Invocation) (any, error)
}

// InvokerFunc adapts an ordinary function to the Invoker interface.
type InvokerFunc func(ctx context.Context, inv Invocation) (any, error)

// Invoke implements Invoker.
func (f InvokerFunc) Invoke(ctx context.Context, inv Invocation) (any, error) {
	return f(ctx, inv)
}
