package pattern

import (
	"context"
	"time"

	"github.com/lfaley/taskmesh/core"
)

// Sequential executes agents strictly in declaration order, one at a time.
//
// Each agent may be skipped by the shared dependency/condition rules. A
// failed invocation stops the workflow immediately unless continueOnError is
// set; agents that were never attempted do not appear in the result stream.
// With passResults set, every invocation receives the accumulated prior
// results as context.
type Sequential struct {
	base
}

// NewSequential creates the sequential pattern backed by the given invoker.
func NewSequential(invoker core.Invoker, optFns ...func(o *Options)) *Sequential {
	return &Sequential{base: newBase(invoker, optFns)}
}

// Type implements Pattern.
func (p *Sequential) Type() core.PatternType { return core.PatternSequential }

// Validate implements Pattern. Sequential has no minimum size beyond the
// structural non-empty check; it verifies referential integrity only.
func (p *Sequential) Validate(req *core.OrchestrationRequest) core.Validation {
	v := core.OK()
	validateReferences(req, &v)
	return v
}

// Execute implements Pattern.
func (p *Sequential) Execute(ctx context.Context, req *core.OrchestrationRequest) (*core.OrchestrationResult, error) {
	start := time.Now()
	continueOnError := req.Config.ContinueOnErrorOr(false)

	var results []core.AgentResult
	for _, cfg := range req.Agents {
		if ctx.Err() != nil {
			break
		}
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

	return p.finalize(req, start, results, core.AggregatedOutput{}), nil
}

// Descriptor implements Pattern.
func (p *Sequential) Descriptor() Descriptor {
	return Descriptor{
		Type:        core.PatternSequential,
		Name:        "Sequential",
		Description: "Executes agents one at a time in declaration order, stopping on the first failure by default.",
		Capabilities: []string{
			"ordered execution",
			"dependency and condition skips",
			"result passing between steps",
			"fail-fast or continue-on-error",
		},
	}
}

// Info implements Pattern.
func (p *Sequential) Info() Info {
	return Info{
		Type:        core.PatternSequential,
		Name:        "Sequential",
		Description: "Executes agents one at a time in declaration order, stopping on the first failure by default.",
		UseCases: []string{
			"multi-step pipelines where each step builds on the previous one",
			"workflows with a strict required order",
			"migrations and setup sequences that must fail fast",
		},
		Example: `{"pattern":"sequential","agents":[{"agentId":"extractor","toolName":"extract"},{"agentId":"loader","toolName":"load","dependsOn":"extractor","requiresSuccess":true}],"config":{"passResults":true}}`,
		BestPractices: []string{
			"set passResults when later agents consume earlier outputs",
			"use dependsOn with requiresSuccess to skip steps whose inputs failed",
			"keep continueOnError off unless later steps are independent",
		},
	}
}
