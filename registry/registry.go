// Package registry implements the agent catalog: the source of truth for
// which (agentId, toolName) pairs are callable. A Registry is an explicit
// value injected into the orchestrator rather than a process-wide singleton,
// so tests stay hermetic and nothing hides shared mutable state.
//
// The registry is read-mostly: it is populated before orchestration starts
// and must not be mutated while a workflow is executing.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lfaley/taskmesh/core"
)

// Availability describes whether an agent may be invoked.
type Availability string

const (
	// Available agents accept invocations.
	Available Availability = "available"
	// Unavailable agents are registered but must not be invoked.
	Unavailable Availability = "unavailable"
)

// ToolInfo describes one named capability offered by an agent.
type ToolInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// AgentInfo is the registered metadata for one agent.
type AgentInfo struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Availability `json:"status" yaml:"status"`
	Tools       []ToolInfo   `json:"tools" yaml:"tools"`
}

// HasTool reports whether the agent offers the named tool.
func (a AgentInfo) HasTool(name string) bool {
	for _, t := range a.Tools {
		if t.Name == name {
			return true
		}
	}
	return false
}

// LookupError reports a failed (agentId, toolName) validation. Code is one of
// core.CodeAgentNotFound, core.CodeAgentUnavailable or core.CodeToolNotFound.
type LookupError struct {
	Code     string `json:"code"`
	AgentID  string `json:"agentId"`
	ToolName string `json:"toolName,omitempty"`
	Message  string `json:"message"`
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("registry error [%s]: %s", e.Code, e.Message)
}

// Stats summarizes registry contents for introspection.
type Stats struct {
	TotalAgents     int `json:"totalAgents"`
	AvailableAgents int `json:"availableAgents"`
	TotalTools      int `json:"totalTools"`
}

// Registry maps agent ids to their metadata. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]AgentInfo
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{agents: make(map[string]AgentInfo)}
}

// Register adds or replaces an agent by id. Registration is an idempotent
// replace; an agent with no declared status defaults to Available.
func (r *Registry) Register(info AgentInfo) error {
	if info.ID == "" {
		return fmt.Errorf("registry: agent id is required")
	}
	if info.Status == "" {
		info.Status = Available
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[info.ID] = info
	return nil
}

// Deregister removes an agent, reporting whether it was present.
func (r *Registry) Deregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.agents[id]
	delete(r.agents, id)
	return ok
}

// Get returns the metadata for an agent id.
func (r *Registry) Get(id string) (AgentInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.agents[id]
	return info, ok
}

// ValidateAgentTool checks that the agent exists, is available and offers the
// named tool. The returned error, when non-nil, is a *LookupError.
func (r *Registry) ValidateAgentTool(id, tool string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.agents[id]
	if !ok {
		return &LookupError{
			Code:    core.CodeAgentNotFound,
			AgentID: id,
			Message: fmt.Sprintf("agent %q is not registered", id),
		}
	}
	if info.Status != Available {
		return &LookupError{
			Code:    core.CodeAgentUnavailable,
			AgentID: id,
			Message: fmt.Sprintf("agent %q is %s", id, info.Status),
		}
	}
	if !info.HasTool(tool) {
		return &LookupError{
			Code:     core.CodeToolNotFound,
			AgentID:  id,
			ToolName: tool,
			Message:  fmt.Sprintf("agent %q does not offer tool %q", id, tool),
		}
	}
	return nil
}

// All returns every registered agent sorted by id.
func (r *Registry) All() []AgentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]AgentInfo, 0, len(r.agents))
	for _, info := range r.agents {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllTools returns the tool lists of every agent keyed by agent id.
func (r *Registry) AllTools() map[string][]ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]ToolInfo, len(r.agents))
	for id, info := range r.agents {
		tools := make([]ToolInfo, len(info.Tools))
		copy(tools, info.Tools)
		out[id] = tools
	}
	return out
}

// Stats returns aggregate counts for introspection.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := Stats{TotalAgents: len(r.agents)}
	for _, info := range r.agents {
		if info.Status == Available {
			s.AvailableAgents++
		}
		s.TotalTools += len(info.Tools)
	}
	return s
}
