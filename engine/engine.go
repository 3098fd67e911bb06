// Package engine provides the orchestrator facade: it validates workflow
// requests against the structural schema and the agent registry, dispatches
// to the selected pattern, and exposes non-executing introspection over
// patterns and registered agents.
//
// The facade either returns a complete OrchestrationResult or rejects with a
// single validation error before any agent is invoked; it never does both.
package engine

import (
	"context"
	"time"

	"github.com/lfaley/taskmesh/core"
	"github.com/lfaley/taskmesh/logging"
	"github.com/lfaley/taskmesh/pattern"
	"github.com/lfaley/taskmesh/registry"
)

// Options configures an Orchestrator.
type Options struct {
	// Logger receives engine and pattern progress. Defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator validates requests, selects the pattern by discriminant and
// standardizes the returned result. The registry and invoker are injected;
// the orchestrator holds no hidden global state.
type Orchestrator struct {
	registry *registry.Registry
	patterns map[core.PatternType]pattern.Pattern
	logger   logging.Logger
}

// New creates an Orchestrator over the given registry and invoker.
func New(reg *registry.Registry, invoker core.Invoker, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		registry: reg,
		patterns: pattern.All(invoker, func(o *pattern.Options) { o.Logger = opts.Logger }),
		logger:   opts.Logger,
	}
}

// Orchestrate validates and executes a workflow. On any validation failure it
// rejects with a *core.ValidationError carrying every collected problem and
// nothing is invoked; otherwise it returns the pattern's result unchanged.
func (o *Orchestrator) Orchestrate(ctx context.Context, req *core.OrchestrationRequest) (*core.OrchestrationResult, error) {
	v := o.ValidateWorkflow(req)
	if !v.Valid {
		o.logger.Warn("workflow rejected", "errors", len(v.Errors))
		return nil, core.NewValidationError(core.CodeInvalidRequest, v.Errors...)
	}

	p := o.patterns[req.Pattern]
	start := time.Now()
	result, err := p.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	o.logger.Info("workflow finished", "pattern", string(req.Pattern), "status", string(result.Status), "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// ValidateWorkflow performs the full pre-execution check without invoking any
// agent: structural schema, registry resolution of every (agentId, toolName)
// pair, then the pattern's own validation. It is a pure function over current
// registry state and produces the same errors Orchestrate would raise.
func (o *Orchestrator) ValidateWorkflow(req *core.OrchestrationRequest) core.Validation {
	v := core.OK()

	if req == nil {
		v.AddError("request is required")
		return v
	}
	if !req.Pattern.Known() {
		v.AddError("unknown pattern %q; expected one of sequential, concurrent, handoff, group-chat", string(req.Pattern))
	}
	if len(req.Agents) == 0 {
		v.AddError("agents must be a non-empty array")
	}
	for i, a := range req.Agents {
		if a.AgentID == "" {
			v.AddError("agent at index %d is missing agentId", i)
		}
		if a.ToolName == "" {
			v.AddError("agent at index %d is missing toolName", i)
		}
		if a.Timeout < 0 {
			v.AddError("agent %q (index %d) declares a negative timeout", a.AgentID, i)
		}
	}
	if !v.Valid {
		return v
	}

	for i, a := range req.Agents {
		if err := o.registry.ValidateAgentTool(a.AgentID, a.ToolName); err != nil {
			v.AddError("agent %q (index %d): %v", a.AgentID, i, err)
		}
	}

	if p, ok := o.patterns[req.Pattern]; ok {
		v.Merge(p.Validate(req))
	}
	return v
}
