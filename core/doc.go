// Package core defines the shared data model of the taskmesh orchestration
// engine: workflow requests, per-agent and aggregate results, the declarative
// condition expression evaluated against prior results, the Invoker capability
// through which all real work is performed, and the error taxonomy used across
// patterns and the orchestrator facade.
//
// Everything in this package is plain data or a narrow interface. The engine
// creates requests and results fresh per orchestration call; results are
// immutable once returned.
package core
