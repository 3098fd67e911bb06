package pattern

import (
	"context"
	"time"

	"github.com/lfaley/taskmesh/core"
)

// Handoff executes agents with conditional transfer-of-control semantics: an
// agent is skipped when a declared dependency failed requiresSuccess or its
// condition evaluates to false, and a failure stops the workflow unless
// continueOnError is set.
//
// Control advances to the next declared agent after every step. The
// handoffTo field is validated for referential existence but does not route:
// jump-based routing is a declared extension point, and the loop's hard
// iteration bound of len(agents)*2 keeps any future jump routing terminating
// even when agents reference themselves or each other in a cycle.
type Handoff struct {
	base
}

// NewHandoff creates the handoff pattern backed by the given invoker.
func NewHandoff(invoker core.Invoker, optFns ...func(o *Options)) *Handoff {
	return &Handoff{base: newBase(invoker, optFns)}
}

// Type implements Pattern.
func (p *Handoff) Type() core.PatternType { return core.PatternHandoff }

// Validate implements Pattern.
func (p *Handoff) Validate(req *core.OrchestrationRequest) core.Validation {
	v := core.OK()
	validateReferences(req, &v)
	return v
}

// Execute implements Pattern.
func (p *Handoff) Execute(ctx context.Context, req *core.OrchestrationRequest) (*core.OrchestrationResult, error) {
	start := time.Now()
	continueOnError := req.Config.ContinueOnErrorOr(false)

	maxIterations := len(req.Agents) * 2
	iterations := 0
	var results []core.AgentResult

	for currentIndex := 0; currentIndex < len(req.Agents) && iterations < maxIterations; currentIndex++ {
		if ctx.Err() != nil {
			break
		}
		iterations++
		cfg := req.Agents[currentIndex]

		if reason := skipReason(cfg, results); reason != "" {
			results = append(results, p.skipped(cfg, reason))
			continue
		}

		var callCtx map[string]any
		if req.Config.PassPriorResults() {
			callCtx = priorContext(results)
		}

		res := p.run(ctx, cfg, callCtx)
		results = append(results, res)

		if res.Status == core.AgentFailed && !continueOnError {
			break
		}
	}

	return p.finalize(req, start, results, core.AggregatedOutput{Iterations: iterations}), nil
}

// Descriptor implements Pattern.
func (p *Handoff) Descriptor() Descriptor {
	return Descriptor{
		Type:        core.PatternHandoff,
		Name:        "Handoff",
		Description: "Transfers control through the agent list with dependency and condition driven skips, bounded against infinite loops.",
		Capabilities: []string{
			"conditional control transfer",
			"dependency-driven skips",
			"bounded iteration",
			"fail-fast or continue-on-error",
		},
	}
}

// Info implements Pattern.
func (p *Handoff) Info() Info {
	return Info{
		Type:        core.PatternHandoff,
		Name:        "Handoff",
		Description: "Transfers control through the agent list with dependency and condition driven skips, bounded against infinite loops.",
		UseCases: []string{
			"triage flows where later agents only run for specific prior outcomes",
			"escalation chains with declarative skip rules",
			"workflows with per-step conditions over earlier results",
		},
		Example: `{"pattern":"handoff","agents":[{"agentId":"triage","toolName":"classify"},{"agentId":"specialist","toolName":"resolve","dependsOn":"triage","requiresSuccess":true}]}`,
		BestPractices: []string{
			"express routing with dependsOn/requiresSuccess and conditions",
			"treat handoffTo as declarative metadata; control advances sequentially",
			"rely on the iteration bound rather than hoping cycles never happen",
		},
	}
}
