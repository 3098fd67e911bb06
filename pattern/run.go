package pattern

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/lfaley/taskmesh/core"
	"github.com/lfaley/taskmesh/logging"
)

// base carries the shared execution machinery of all patterns: the single
// invocation boundary with its timeout race, skip evaluation and result
// assembly.
type base struct {
	invoker core.Invoker
	logger  logging.Logger
}

func newBase(invoker core.Invoker, optFns []func(o *Options)) base {
	opts := applyOptions(optFns)
	return base{invoker: invoker, logger: opts.Logger}
}

// run performs one invocation attempt, racing it against the agent's timeout.
// It always returns a terminal result (completed or failed) and never panics
// out of a misbehaving invoker.
func (b *base) run(ctx context.Context, cfg core.AgentConfig, callCtx map[string]any) core.AgentResult {
	start := time.Now()
	res := core.AgentResult{
		AgentID: cfg.AgentID,
		Status:  core.AgentRunning,
		Metadata: core.ResultMetadata{
			StartTime:       start,
			ReceivedContext: callCtx != nil,
		},
	}

	timeout := cfg.TimeoutDuration()
	invCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		out any
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := make([]byte, 8192)
				n := runtime.Stack(stack, false)
				done <- outcome{err: &panicError{value: r, stack: string(stack[:n])}}
			}
		}()
		out, err := b.invoker.Invoke(invCtx, core.Invocation{
			AgentID:  cfg.AgentID,
			ToolName: cfg.ToolName,
			Args:     cfg.Args,
			Context:  callCtx,
		})
		done <- outcome{out: out, err: err}
	}()

	select {
	case <-invCtx.Done():
		// The deadline fires even when the invoker ignores cancellation;
		// the goroutine drains into the buffered channel and is collected.
		res.Status = core.AgentFailed
		if errors.Is(invCtx.Err(), context.DeadlineExceeded) {
			res.Error = timeoutDetail(cfg, timeout)
		} else {
			res.Error = &core.ErrorDetail{
				Message: fmt.Sprintf("invocation of %s/%s cancelled: %v", cfg.AgentID, cfg.ToolName, context.Cause(invCtx)),
				Code:    core.CodeExecutionError,
			}
		}
	case o := <-done:
		if o.err != nil {
			res.Status = core.AgentFailed
			if errors.Is(o.err, context.DeadlineExceeded) {
				res.Error = timeoutDetail(cfg, timeout)
			} else {
				res.Error = executionError(o.err)
			}
		} else {
			res.Status = core.AgentCompleted
			res.Output = o.out
		}
	}

	end := time.Now()
	res.Metadata.EndTime = end
	res.Metadata.Duration = end.Sub(start).Milliseconds()

	if res.Status == core.AgentFailed {
		b.logger.Warn("agent invocation failed", "agent_id", cfg.AgentID, "tool", cfg.ToolName, "code", res.Error.Code, "error", res.Error.Message)
	} else {
		b.logger.Debug("agent invocation completed", "agent_id", cfg.AgentID, "tool", cfg.ToolName, "duration_ms", res.Metadata.Duration)
	}
	return res
}

// panicError wraps a recovered invoker panic so the stack survives into the
// result's error detail.
type panicError struct {
	value any
	stack string
}

func (e *panicError) Error() string { return fmt.Sprintf("invoker panic: %v", e.value) }

func executionError(err error) *core.ErrorDetail {
	detail := &core.ErrorDetail{Message: err.Error(), Code: core.CodeExecutionError}
	var pe *panicError
	if errors.As(err, &pe) {
		detail.Stack = pe.stack
	}
	return detail
}

func timeoutDetail(cfg core.AgentConfig, timeout time.Duration) *core.ErrorDetail {
	return &core.ErrorDetail{
		Message: fmt.Sprintf("invocation of %s/%s exceeded timeout of %dms", cfg.AgentID, cfg.ToolName, timeout.Milliseconds()),
		Code:    core.CodeTimeoutError,
	}
}

// skipReason returns a non-empty reason when cfg must be skipped given the
// results recorded so far. A dependency that has not run yet never causes a
// skip; neither does a condition whose source agent has not run.
func skipReason(cfg core.AgentConfig, prior []core.AgentResult) string {
	if cfg.DependsOn != "" && cfg.RequiresSuccess {
		for i := len(prior) - 1; i >= 0; i-- {
			if prior[i].AgentID != cfg.DependsOn {
				continue
			}
			if prior[i].Status != core.AgentCompleted {
				return fmt.Sprintf("dependency %q did not complete successfully", cfg.DependsOn)
			}
			break
		}
	}
	if cfg.Condition != nil && !cfg.Condition.Evaluate(prior) {
		return fmt.Sprintf("condition on %q evaluated to false", cfg.Condition.Source)
	}
	return ""
}

// skipped builds the zero-duration record of a deliberate non-execution.
func (b *base) skipped(cfg core.AgentConfig, reason string) core.AgentResult {
	now := time.Now()
	b.logger.Info("agent skipped", "agent_id", cfg.AgentID, "reason", reason)
	return core.AgentResult{
		AgentID: cfg.AgentID,
		Status:  core.AgentSkipped,
		Metadata: core.ResultMetadata{
			StartTime: now,
			EndTime:   now,
		},
	}
}

// priorContext shapes accumulated results into the invocation context handed
// to an agent when config.passResults is set.
func priorContext(results []core.AgentResult) map[string]any {
	prev := make([]map[string]any, 0, len(results))
	for _, r := range results {
		entry := map[string]any{
			"agentId": r.AgentID,
			"status":  string(r.Status),
		}
		if r.Output != nil {
			entry["output"] = r.Output
		}
		if r.Error != nil {
			entry["error"] = r.Error.Message
		}
		prev = append(prev, entry)
	}
	return map[string]any{"previousResults": prev}
}

// finalize assembles the aggregate result: status derivation, the ordered
// output list, summary line and run metadata.
func (b *base) finalize(req *core.OrchestrationRequest, start time.Time, results []core.AgentResult, agg core.AggregatedOutput) *core.OrchestrationResult {
	end := time.Now()
	total := end.Sub(start)

	if req.Config.Aggregate() {
		agg.Results = outputs(results)
	} else {
		agg.Results = []core.AgentOutput{}
	}

	status := core.DeriveStatus(results)
	b.logger.Info("pattern execution finished", "pattern", string(req.Pattern), "status", string(status), "agents", len(results), "duration_ms", total.Milliseconds())

	return &core.OrchestrationResult{
		Status:           status,
		AgentResults:     results,
		AggregatedOutput: agg,
		Summary:          core.Summarize(results, total),
		Metadata: core.RunMetadata{
			OrchestrationID: uuid.NewString(),
			Pattern:         req.Pattern,
			StartTime:       start,
			EndTime:         end,
			TotalDuration:   total.Milliseconds(),
			Description:     req.Description,
		},
	}
}

// outputs projects results into the aggregated output list, preserving the
// order of the given slice.
func outputs(results []core.AgentResult) []core.AgentOutput {
	out := make([]core.AgentOutput, 0, len(results))
	for _, r := range results {
		out = append(out, core.AgentOutput{AgentID: r.AgentID, Status: r.Status, Output: r.Output})
	}
	return out
}

// validateReferences checks that DependsOn, HandoffTo and Condition sources
// name agents declared in the request and that conditions are well-formed.
// Shared by every pattern's Validate.
func validateReferences(req *core.OrchestrationRequest, v *core.Validation) {
	for i, a := range req.Agents {
		if a.DependsOn != "" && !req.HasAgent(a.DependsOn) {
			v.AddError("agent %q (index %d) dependsOn unknown agent %q", a.AgentID, i, a.DependsOn)
		}
		if a.HandoffTo != "" && !req.HasAgent(a.HandoffTo) {
			v.AddError("agent %q (index %d) declares handoffTo unknown agent %q", a.AgentID, i, a.HandoffTo)
		}
		if a.Condition != nil {
			if err := a.Condition.Validate(); err != nil {
				v.AddError("agent %q (index %d): %v", a.AgentID, i, err)
			} else if !req.HasAgent(a.Condition.Source) {
				v.AddError("agent %q (index %d) condition references unknown agent %q", a.AgentID, i, a.Condition.Source)
			}
		}
	}
}
