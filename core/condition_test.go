package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(agentID string, status AgentStatus, output any) AgentResult {
	return AgentResult{AgentID: agentID, Status: status, Output: output}
}

func TestCondition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cond    Condition
		wantErr bool
	}{
		{"exists without value", Condition{Source: "a", Op: OpExists}, false},
		{"eq with value", Condition{Source: "a", Op: OpEquals, Value: 1}, false},
		{"eq without value", Condition{Source: "a", Op: OpEquals}, true},
		{"missing source", Condition{Op: OpExists}, true},
		{"unknown operator", Condition{Source: "a", Op: "regex"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cond.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCondition_Evaluate_SourceNotRun(t *testing.T) {
	cond := Condition{Source: "missing", Op: OpEquals, Value: "x"}
	assert.True(t, cond.Evaluate([]AgentResult{result("other", AgentCompleted, nil)}),
		"a condition whose source has not run must not cause a skip")
}

func TestCondition_Evaluate_FieldPath(t *testing.T) {
	prior := []AgentResult{
		result("classifier", AgentCompleted, map[string]any{
			"verdict": map[string]any{"label": "spam", "score": 0.92},
			"tags":    []any{"bulk", "promo"},
		}),
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"eq nested", Condition{Source: "classifier", Field: "verdict.label", Op: OpEquals, Value: "spam"}, true},
		{"ne nested", Condition{Source: "classifier", Field: "verdict.label", Op: OpNotEquals, Value: "ham"}, true},
		{"gt score", Condition{Source: "classifier", Field: "verdict.score", Op: OpGreaterThan, Value: 0.9}, true},
		{"lt score", Condition{Source: "classifier", Field: "verdict.score", Op: OpLessThan, Value: 0.9}, false},
		{"exists present", Condition{Source: "classifier", Field: "verdict", Op: OpExists}, true},
		{"exists absent", Condition{Source: "classifier", Field: "verdict.missing", Op: OpExists}, false},
		{"contains slice", Condition{Source: "classifier", Field: "tags", Op: OpContains, Value: "bulk"}, true},
		{"contains miss", Condition{Source: "classifier", Field: "tags", Op: OpContains, Value: "urgent"}, false},
		{"status path", Condition{Source: "classifier", Field: "status", Op: OpEquals, Value: "completed"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Evaluate(prior))
		})
	}
}

func TestCondition_Evaluate_NumericLoosely(t *testing.T) {
	// JSON decoding yields float64; literals in code are often int.
	prior := []AgentResult{result("counter", AgentCompleted, map[string]any{"count": float64(3)})}
	cond := Condition{Source: "counter", Field: "count", Op: OpEquals, Value: 3}
	assert.True(t, cond.Evaluate(prior))
}

func TestCondition_Evaluate_LatestResultWins(t *testing.T) {
	prior := []AgentResult{
		result("worker", AgentFailed, nil),
		result("worker", AgentCompleted, map[string]any{"ok": true}),
	}
	cond := Condition{Source: "worker", Field: "status", Op: OpEquals, Value: "completed"}
	require.True(t, cond.Evaluate(prior))
}
