package core

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ConditionOp enumerates the comparison operators of the condition language.
type ConditionOp string

const (
	// OpExists is satisfied when the addressed field is present and non-nil.
	OpExists ConditionOp = "exists"
	// OpEquals compares the addressed field against Value.
	OpEquals ConditionOp = "eq"
	// OpNotEquals is the negation of OpEquals.
	OpNotEquals ConditionOp = "ne"
	// OpContains checks substring or slice membership.
	OpContains ConditionOp = "contains"
	// OpGreaterThan compares numerically.
	OpGreaterThan ConditionOp = "gt"
	// OpLessThan compares numerically.
	OpLessThan ConditionOp = "lt"
)

// Condition is a declarative, serializable predicate evaluated against prior
// results. It replaces embedded predicate functions, which cannot cross a
// process or wire boundary: a condition addresses the latest result of the
// Source agent, navigates Field (a dot path into its output, or the reserved
// path "status"), and applies Op against Value.
//
// A condition whose Source agent has not run yet evaluates to true, matching
// the dependency rule that a not-yet-run dependency never causes a skip.
type Condition struct {
	Source string      `json:"source" yaml:"source"`
	Field  string      `json:"field,omitempty" yaml:"field,omitempty"`
	Op     ConditionOp `json:"op" yaml:"op"`
	Value  any         `json:"value,omitempty" yaml:"value,omitempty"`
}

// Validate checks structural well-formedness without evaluating anything.
func (c *Condition) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("condition: source agent id is required")
	}
	switch c.Op {
	case OpExists:
	case OpEquals, OpNotEquals, OpContains, OpGreaterThan, OpLessThan:
		if c.Value == nil {
			return fmt.Errorf("condition: operator %q requires a value", c.Op)
		}
	default:
		return fmt.Errorf("condition: unknown operator %q", c.Op)
	}
	return nil
}

// Evaluate applies the condition to the results recorded so far. The latest
// result for Source wins when the same agent ran more than once.
func (c *Condition) Evaluate(prior []AgentResult) bool {
	var src *AgentResult
	for i := len(prior) - 1; i >= 0; i-- {
		if prior[i].AgentID == c.Source {
			src = &prior[i]
			break
		}
	}
	if src == nil {
		return true
	}

	field, ok := c.resolve(src)
	switch c.Op {
	case OpExists:
		return ok && field != nil
	case OpEquals:
		return ok && looseEqual(field, c.Value)
	case OpNotEquals:
		return !ok || !looseEqual(field, c.Value)
	case OpContains:
		return ok && contains(field, c.Value)
	case OpGreaterThan:
		a, aok := toFloat(field)
		b, bok := toFloat(c.Value)
		return ok && aok && bok && a > b
	case OpLessThan:
		a, aok := toFloat(field)
		b, bok := toFloat(c.Value)
		return ok && aok && bok && a < b
	}
	return false
}

// resolve walks the field path inside the source result. An empty path
// addresses the whole output; the reserved path "status" addresses the
// result status.
func (c *Condition) resolve(src *AgentResult) (any, bool) {
	if c.Field == "status" {
		return string(src.Status), true
	}
	cur := src.Output
	if c.Field == "" {
		return cur, cur != nil
	}
	for _, seg := range strings.Split(c.Field, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// looseEqual compares across the numeric types JSON decoding produces.
func looseEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
	}
	return reflect.DeepEqual(a, b)
}

func contains(haystack, needle any) bool {
	switch h := haystack.(type) {
	case string:
		return strings.Contains(h, fmt.Sprintf("%v", needle))
	case []any:
		for _, item := range h {
			if looseEqual(item, needle) {
				return true
			}
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
