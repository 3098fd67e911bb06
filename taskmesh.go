// Package taskmesh provides a high-level façade over the orchestration
// engine, registry and invocation capability, enabling rapid construction of
// declarative multi-agent workflows. Most applications interact with this
// package by:
//  1. Creating a TaskMesh via New() (optionally overriding the default
//     simulated invoker, registry and logger)
//  2. Registering agents and their tools
//  3. Executing workflow requests under one of the four patterns
//     (sequential, concurrent, handoff, group-chat)
//
// The façade delegates to engine.Orchestrator while keeping setup and usage
// ergonomics concise. All defaults are safe for local development and
// testing; production deployments supply a real invoker (see invoker/openai
// and invoker/anthropic) and a structured logger.
package taskmesh

import (
	"context"

	"github.com/lfaley/taskmesh/core"
	"github.com/lfaley/taskmesh/engine"
	"github.com/lfaley/taskmesh/invoker"
	"github.com/lfaley/taskmesh/logging"
	"github.com/lfaley/taskmesh/pattern"
	"github.com/lfaley/taskmesh/registry"
)

// Options configures the TaskMesh instance.
type Options struct {
	// Registry holds the agent catalog. Defaults to an empty registry.
	Registry *registry.Registry

	// Invoker performs the actual agent tool calls. Defaults to the
	// simulated invoker, which is suitable for development and tests only.
	Invoker core.Invoker

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// TaskMesh is the high-level façade aggregating the orchestrator, registry
// and invocation capability.
type TaskMesh struct {
	opts         Options
	orchestrator *engine.Orchestrator
}

// New creates a new TaskMesh instance with optional overrides. Any unset
// dependency is initialized with a local default.
func New(optFns ...func(o *Options)) *TaskMesh {
	opts := Options{
		Registry: registry.New(),
		Invoker:  invoker.NewSimulated(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	orch := engine.New(opts.Registry, opts.Invoker, func(o *engine.Options) {
		o.Logger = opts.Logger
	})
	return &TaskMesh{opts: opts, orchestrator: orch}
}

// RegisterAgent adds an agent to the underlying registry.
func (m *TaskMesh) RegisterAgent(info registry.AgentInfo) error {
	return m.opts.Registry.Register(info)
}

// Registry exposes the agent catalog.
func (m *TaskMesh) Registry() *registry.Registry { return m.opts.Registry }

// Orchestrate validates and executes a workflow request.
func (m *TaskMesh) Orchestrate(ctx context.Context, req *core.OrchestrationRequest) (*core.OrchestrationResult, error) {
	return m.orchestrator.Orchestrate(ctx, req)
}

// ValidateWorkflow checks a request without executing any agent.
func (m *TaskMesh) ValidateWorkflow(req *core.OrchestrationRequest) core.Validation {
	return m.orchestrator.ValidateWorkflow(req)
}

// ListPatterns describes all supported orchestration patterns.
func (m *TaskMesh) ListPatterns() []pattern.Descriptor {
	return m.orchestrator.ListPatterns()
}

// PatternInfo returns the long-form record for one pattern type.
func (m *TaskMesh) PatternInfo(t core.PatternType) (pattern.Info, error) {
	return m.orchestrator.PatternInfo(t)
}

// ListAvailableAgents returns the registry contents shaped for callers.
func (m *TaskMesh) ListAvailableAgents() engine.AgentCatalog {
	return m.orchestrator.ListAvailableAgents()
}
