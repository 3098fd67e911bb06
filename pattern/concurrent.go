package pattern

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lfaley/taskmesh/core"
)

// Concurrent partitions agents into batches of config.maxConcurrency and
// runs each batch's invocations in parallel, awaiting the whole batch before
// starting the next. Without maxConcurrency every agent runs in one batch.
//
// Dependency and condition fields are honored only across batch boundaries:
// skip evaluation sees the results of completed batches, never of siblings in
// the same batch. The aggregated output list is reordered back to declaration
// order regardless of completion order. Failure handling mirrors the
// sequential pattern, evaluated at batch boundaries.
type Concurrent struct {
	base
}

// NewConcurrent creates the concurrent pattern backed by the given invoker.
func NewConcurrent(invoker core.Invoker, optFns ...func(o *Options)) *Concurrent {
	return &Concurrent{base: newBase(invoker, optFns)}
}

// Type implements Pattern.
func (p *Concurrent) Type() core.PatternType { return core.PatternConcurrent }

// Validate implements Pattern. An absent maxConcurrency and dependencies
// that cannot be ordered ahead of their dependents produce warnings, not
// errors: both configurations run, just without the guarantee the author may
// expect.
func (p *Concurrent) Validate(req *core.OrchestrationRequest) core.Validation {
	v := core.OK()
	validateReferences(req, &v)

	batchSize := req.Config.Concurrency()
	if batchSize <= 0 {
		v.AddWarning("maxConcurrency is not set; all %d agent(s) will run in a single parallel batch", len(req.Agents))
		batchSize = len(req.Agents)
	}
	if batchSize <= 0 {
		return v
	}

	batchOf := func(index int) int { return index / batchSize }
	position := make(map[string]int, len(req.Agents))
	for i, a := range req.Agents {
		if _, seen := position[a.AgentID]; !seen {
			position[a.AgentID] = i
		}
	}
	for i, a := range req.Agents {
		if a.DependsOn == "" {
			continue
		}
		depIndex, ok := position[a.DependsOn]
		if !ok {
			continue // already reported by validateReferences
		}
		if batchOf(depIndex) >= batchOf(i) {
			v.AddWarning("agent %q dependsOn %q which runs in the same or a later batch; the dependency is not guaranteed to have executed first", a.AgentID, a.DependsOn)
		}
	}
	return v
}

// Execute implements Pattern.
func (p *Concurrent) Execute(ctx context.Context, req *core.OrchestrationRequest) (*core.OrchestrationResult, error) {
	start := time.Now()
	continueOnError := req.Config.ContinueOnErrorOr(false)

	batchSize := req.Config.Concurrency()
	if batchSize <= 0 {
		batchSize = len(req.Agents)
	}

	// Slots keep declaration order; unattempted agents stay zero-valued and
	// are filtered out when the result stream is assembled.
	slots := make([]core.AgentResult, len(req.Agents))
	attempted := make([]bool, len(req.Agents))
	batches := 0

	for lo := 0; lo < len(req.Agents); lo += batchSize {
		if ctx.Err() != nil {
			break
		}
		hi := lo + batchSize
		if hi > len(req.Agents) {
			hi = len(req.Agents)
		}
		batches++

		// Skip evaluation sees only completed batches: snapshot before launch.
		snapshot := collect(slots, attempted)
		var callCtx map[string]any
		if req.Config.PassPriorResults() {
			callCtx = priorContext(snapshot)
		}

		g := new(errgroup.Group)
		for i := lo; i < hi; i++ {
			cfg := req.Agents[i]
			attempted[i] = true
			if reason := skipReason(cfg, snapshot); reason != "" {
				slots[i] = p.skipped(cfg, reason)
				continue
			}
			idx := i
			g.Go(func() error {
				// Per-agent failures land in the slot, never in the group.
				slots[idx] = p.run(ctx, cfg, callCtx)
				return nil
			})
		}
		_ = g.Wait()

		if !continueOnError && batchFailed(slots[lo:hi]) {
			break
		}
	}

	results := collect(slots, attempted)
	return p.finalize(req, start, results, core.AggregatedOutput{Batches: batches}), nil
}

func batchFailed(batch []core.AgentResult) bool {
	for _, r := range batch {
		if r.Status == core.AgentFailed {
			return true
		}
	}
	return false
}

func collect(slots []core.AgentResult, attempted []bool) []core.AgentResult {
	out := make([]core.AgentResult, 0, len(slots))
	for i, r := range slots {
		if attempted[i] {
			out = append(out, r)
		}
	}
	return out
}

// Descriptor implements Pattern.
func (p *Concurrent) Descriptor() Descriptor {
	return Descriptor{
		Type:        core.PatternConcurrent,
		Name:        "Concurrent",
		Description: "Runs agents in parallel batches bounded by maxConcurrency, with deterministic output ordering.",
		Capabilities: []string{
			"bounded parallelism",
			"batch-boundary failure handling",
			"deterministic output order",
			"cross-batch dependency skips",
		},
	}
}

// Info implements Pattern.
func (p *Concurrent) Info() Info {
	return Info{
		Type:        core.PatternConcurrent,
		Name:        "Concurrent",
		Description: "Runs agents in parallel batches bounded by maxConcurrency, with deterministic output ordering.",
		UseCases: []string{
			"independent fan-out work such as gathering data from many sources",
			"I/O bound invocations that benefit from overlap",
			"bulk processing with a concurrency budget",
		},
		Example: `{"pattern":"concurrent","agents":[{"agentId":"fetcher-a","toolName":"fetch"},{"agentId":"fetcher-b","toolName":"fetch"}],"config":{"maxConcurrency":2}}`,
		BestPractices: []string{
			"always set maxConcurrency; unbounded fan-out is easy to regret",
			"place dependencies in earlier batches than their dependents",
			"keep agents independent; intra-batch ordering is not guaranteed",
		},
	}
}
