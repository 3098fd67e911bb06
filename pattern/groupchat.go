package pattern

import (
	"context"
	"fmt"
	"time"

	"github.com/lfaley/taskmesh/core"
)

const (
	// groupChatMaxRounds is the fixed discussion length.
	groupChatMaxRounds = 3
	// groupChatMinRounds is the minimum number of rounds that always run.
	groupChatMinRounds = 1

	// errTooFewAgents is the validation message for undersized group chats.
	errTooFewAgents = "At least two agents are required for group chat"
)

// GroupChat runs a fixed number of discussion rounds over at least two
// agents. Every round invokes each agent in declared order with a discussion
// context carrying the round counters and all completed outputs so far.
//
// Unlike the other patterns, continueOnError defaults to true here:
// discussions are expected to tolerate individual failures. The
// round-continuation check after each round is an extension point for
// convergence-based early termination and currently always continues.
type GroupChat struct {
	base

	// continueRounds decides after each round whether the discussion goes
	// on. The default always continues; replaceable for convergence checks.
	continueRounds func(round int, results []core.AgentResult) bool
}

// NewGroupChat creates the group-chat pattern backed by the given invoker.
func NewGroupChat(invoker core.Invoker, optFns ...func(o *Options)) *GroupChat {
	return &GroupChat{
		base:           newBase(invoker, optFns),
		continueRounds: func(int, []core.AgentResult) bool { return true },
	}
}

// Type implements Pattern.
func (p *GroupChat) Type() core.PatternType { return core.PatternGroupChat }

// Validate implements Pattern.
func (p *GroupChat) Validate(req *core.OrchestrationRequest) core.Validation {
	v := core.OK()
	if len(req.Agents) < 2 {
		v.AddError("%s", errTooFewAgents)
	}
	validateReferences(req, &v)
	return v
}

// Execute implements Pattern.
func (p *GroupChat) Execute(ctx context.Context, req *core.OrchestrationRequest) (*core.OrchestrationResult, error) {
	start := time.Now()
	continueOnError := req.Config.ContinueOnErrorOr(true)

	var results []core.AgentResult
	rounds := 0
	stopped := false

	for round := 1; round <= groupChatMaxRounds && !stopped; round++ {
		rounds = round
		p.logger.Debug("group chat round starting", "round", round, "total_rounds", groupChatMaxRounds)

		for _, cfg := range req.Agents {
			if ctx.Err() != nil {
				stopped = true
				break
			}

			res := p.run(ctx, cfg, discussionContext(round, results))
			results = append(results, res)

			if res.Status == core.AgentFailed && !continueOnError {
				stopped = true
				break
			}
		}

		if !stopped && round >= groupChatMinRounds && !p.continueRounds(round, results) {
			break
		}
	}

	agg := core.AggregatedOutput{
		Rounds:       rounds,
		FinalOutputs: finalOutputs(results),
	}
	return p.finalize(req, start, results, agg), nil
}

// discussionContext builds the per-invocation view of the conversation:
// round counters, all completed outputs so far and a short summary line.
func discussionContext(round int, results []core.AgentResult) map[string]any {
	previous := make([]map[string]any, 0, len(results))
	for _, r := range results {
		if r.Status != core.AgentCompleted {
			continue
		}
		previous = append(previous, map[string]any{
			"agentId": r.AgentID,
			"output":  r.Output,
		})
	}
	return map[string]any{
		"totalRounds":     groupChatMaxRounds,
		"currentRound":    round,
		"previousOutputs": previous,
		"summary":         fmt.Sprintf("Round %d of %d; %d contribution(s) so far", round, groupChatMaxRounds, len(previous)),
	}
}

// finalOutputs keeps the last recorded result per unique agent id.
func finalOutputs(results []core.AgentResult) map[string]core.AgentOutput {
	out := make(map[string]core.AgentOutput)
	for _, r := range results {
		out[r.AgentID] = core.AgentOutput{AgentID: r.AgentID, Status: r.Status, Output: r.Output}
	}
	return out
}

// Descriptor implements Pattern.
func (p *GroupChat) Descriptor() Descriptor {
	return Descriptor{
		Type:        core.PatternGroupChat,
		Name:        "Group Chat",
		Description: "Runs a fixed three-round discussion over all agents, sharing every completed output between rounds.",
		Capabilities: []string{
			"multi-round discussion",
			"shared discussion context",
			"failure-tolerant by default",
			"final output per agent",
		},
	}
}

// Info implements Pattern.
func (p *GroupChat) Info() Info {
	return Info{
		Type:        core.PatternGroupChat,
		Name:        "Group Chat",
		Description: "Runs a fixed three-round discussion over all agents, sharing every completed output between rounds.",
		UseCases: []string{
			"multi-perspective review where agents refine each other's output",
			"brainstorming across specialist agents",
			"consensus building over several passes",
		},
		Example: `{"pattern":"group-chat","agents":[{"agentId":"critic","toolName":"review"},{"agentId":"author","toolName":"revise"}]}`,
		BestPractices: []string{
			"give each agent a distinct perspective or role",
			"design tools to read previousOutputs from the discussion context",
			"leave continueOnError on; one failed voice should not end the discussion",
		},
	}
}
