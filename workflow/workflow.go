// Package workflow handles declarative workflow definitions: loading them
// from YAML or JSON documents and exporting the JSON schema of the request
// shape so remote callers can validate a workflow before submitting it.
package workflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lfaley/taskmesh/core"
)

// Definition is the serializable form of an orchestration request, with an
// optional name for catalogs of stored workflows. YAML is the primary
// format; JSON documents parse through the same path since YAML is a
// superset.
type Definition struct {
	Name        string              `json:"name,omitempty" yaml:"name,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Pattern     core.PatternType    `json:"pattern" yaml:"pattern"`
	Agents      []core.AgentConfig  `json:"agents" yaml:"agents"`
	Config      *core.RequestConfig `json:"config,omitempty" yaml:"config,omitempty"`
}

// Request converts the definition into an executable request.
func (d *Definition) Request() *core.OrchestrationRequest {
	return &core.OrchestrationRequest{
		Pattern:     d.Pattern,
		Agents:      d.Agents,
		Config:      d.Config,
		Description: d.Description,
	}
}

// Parse decodes a workflow definition from YAML or JSON bytes.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse workflow definition: %w", err)
	}
	if def.Pattern == "" {
		return nil, fmt.Errorf("parse workflow definition: pattern is required")
	}
	if len(def.Agents) == 0 {
		return nil, fmt.Errorf("parse workflow definition: agents must be non-empty")
	}
	return &def, nil
}

// Load reads and parses a workflow definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load workflow definition: %w", err)
	}
	return Parse(data)
}

// Marshal renders a definition back to YAML.
func Marshal(def *Definition) ([]byte, error) {
	data, err := yaml.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal workflow definition: %w", err)
	}
	return data, nil
}
