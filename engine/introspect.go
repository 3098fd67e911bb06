package engine

import (
	"fmt"

	"github.com/lfaley/taskmesh/core"
	"github.com/lfaley/taskmesh/pattern"
	"github.com/lfaley/taskmesh/registry"
)

// AgentSummary is the introspection projection of one registered agent.
type AgentSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	ToolCount   int      `json:"toolCount"`
	Tools       []string `json:"tools"`
}

// AgentCatalog lists every registered agent together with registry stats.
type AgentCatalog struct {
	Agents []AgentSummary `json:"agents"`
	Stats  registry.Stats `json:"stats"`
}

// ListPatterns describes all four patterns in stable type order.
func (o *Orchestrator) ListPatterns() []pattern.Descriptor {
	out := make([]pattern.Descriptor, 0, len(o.patterns))
	for _, t := range core.PatternTypes() {
		out = append(out, o.patterns[t].Descriptor())
	}
	return out
}

// PatternInfo returns the long-form record for one pattern type, failing
// with an UNKNOWN_PATTERN validation error for an unrecognized type.
func (o *Orchestrator) PatternInfo(t core.PatternType) (pattern.Info, error) {
	p, ok := o.patterns[t]
	if !ok {
		return pattern.Info{}, core.NewValidationError(core.CodeUnknownPattern,
			fmt.Sprintf("unknown pattern %q; expected one of sequential, concurrent, handoff, group-chat", string(t)))
	}
	return p.Info(), nil
}

// ListAvailableAgents returns the registry contents shaped for callers,
// sorted by agent id.
func (o *Orchestrator) ListAvailableAgents() AgentCatalog {
	infos := o.registry.All()
	agents := make([]AgentSummary, 0, len(infos))
	for _, info := range infos {
		tools := make([]string, 0, len(info.Tools))
		for _, t := range info.Tools {
			tools = append(tools, t.Name)
		}
		agents = append(agents, AgentSummary{
			ID:          info.ID,
			Name:        info.Name,
			Description: info.Description,
			Status:      string(info.Status),
			ToolCount:   len(info.Tools),
			Tools:       tools,
		})
	}
	return AgentCatalog{Agents: agents, Stats: o.registry.Stats()}
}
