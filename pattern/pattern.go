// Package pattern implements the four orchestration disciplines (sequential,
// concurrent, handoff and group-chat) behind a common Validate/Execute
// contract. Each pattern turns a declarative OrchestrationRequest into an
// aggregated OrchestrationResult, funnelling every piece of real work through
// the injected core.Invoker.
//
// Patterns never throw execution failures: invocation errors and timeouts are
// recorded per agent inside the result stream, and only request-level
// validation can reject a workflow outright.
package pattern

import (
	"context"

	"github.com/lfaley/taskmesh/core"
	"github.com/lfaley/taskmesh/logging"
)

// Pattern is the common contract of all orchestration strategies.
//
// Validate performs pattern-specific, side-effect-free checks and collects
// every error and warning it finds. Execute runs the scheduling algorithm; it
// returns a well-formed result even under partial failure and reserves its
// error return for programming mistakes (nil request after validation was
// skipped), never for agent failures.
type Pattern interface {
	Type() core.PatternType
	Descriptor() Descriptor
	Info() Info
	Validate(req *core.OrchestrationRequest) core.Validation
	Execute(ctx context.Context, req *core.OrchestrationRequest) (*core.OrchestrationResult, error)
}

// Descriptor is the short-form introspection record of a pattern.
type Descriptor struct {
	Type         core.PatternType `json:"type"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Capabilities []string         `json:"capabilities"`
}

// Info is the long-form introspection record of a pattern.
type Info struct {
	Type          core.PatternType `json:"type"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	UseCases      []string         `json:"useCases"`
	Example       string           `json:"example"`
	BestPractices []string         `json:"bestPractices"`
}

// Options configures pattern construction.
type Options struct {
	// Logger receives per-agent and per-pattern progress. Defaults to NoOp.
	Logger logging.Logger
}

func applyOptions(optFns []func(o *Options)) Options {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// All constructs one instance of every pattern sharing the same invoker and
// options, keyed by type. Adding a pattern means extending this map and the
// core.PatternTypes list together.
func All(invoker core.Invoker, optFns ...func(o *Options)) map[core.PatternType]Pattern {
	return map[core.PatternType]Pattern{
		core.PatternSequential: NewSequential(invoker, optFns...),
		core.PatternConcurrent: NewConcurrent(invoker, optFns...),
		core.PatternHandoff:    NewHandoff(invoker, optFns...),
		core.PatternGroupChat:  NewGroupChat(invoker, optFns...),
	}
}
