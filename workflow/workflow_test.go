package workflow

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfaley/taskmesh/core"
	"github.com/lfaley/taskmesh/engine"
	"github.com/lfaley/taskmesh/invoker"
	"github.com/lfaley/taskmesh/registry"
)

const yamlDefinition = `
name: etl
description: extract, transform and load
pattern: sequential
agents:
  - agentId: extractor
    toolName: extract
    args:
      source: s3://bucket/data.csv
  - agentId: loader
    toolName: load
    dependsOn: extractor
    requiresSuccess: true
    condition:
      source: extractor
      field: rows
      op: gt
      value: 0
config:
  passResults: true
  continueOnError: false
`

func TestParse_YAML(t *testing.T) {
	def, err := Parse([]byte(yamlDefinition))
	require.NoError(t, err)

	assert.Equal(t, "etl", def.Name)
	assert.Equal(t, core.PatternSequential, def.Pattern)
	require.Len(t, def.Agents, 2)
	assert.Equal(t, "extractor", def.Agents[0].AgentID)
	assert.Equal(t, "s3://bucket/data.csv", def.Agents[0].Args["source"])
	assert.True(t, def.Agents[1].RequiresSuccess)

	cond := def.Agents[1].Condition
	require.NotNil(t, cond)
	assert.Equal(t, "extractor", cond.Source)
	assert.Equal(t, core.OpGreaterThan, cond.Op)
	assert.NoError(t, cond.Validate())

	require.NotNil(t, def.Config)
	assert.True(t, def.Config.PassResults)
	require.NotNil(t, def.Config.ContinueOnError)
	assert.False(t, *def.Config.ContinueOnError)
}

func TestParse_JSON(t *testing.T) {
	doc := `{"pattern":"concurrent","agents":[{"agentId":"a","toolName":"work"}],"config":{"maxConcurrency":2}}`
	def, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, core.PatternConcurrent, def.Pattern)
	assert.Equal(t, 2, def.Config.MaxConcurrency)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("pattern: sequential\n"))
	assert.Error(t, err, "agents must be non-empty")

	_, err = Parse([]byte("agents:\n  - agentId: a\n    toolName: work\n"))
	assert.Error(t, err, "pattern is required")

	_, err = Parse([]byte("{not yaml"))
	assert.Error(t, err)
}

func TestLoad_RoundTrip(t *testing.T) {
	def, err := Parse([]byte(yamlDefinition))
	require.NoError(t, err)

	data, err := Marshal(def)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "etl.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, def, loaded)
}

func TestDefinition_Request(t *testing.T) {
	def, err := Parse([]byte(yamlDefinition))
	require.NoError(t, err)

	req := def.Request()
	assert.Equal(t, def.Pattern, req.Pattern)
	assert.Equal(t, def.Agents, req.Agents)
	assert.Equal(t, def.Config, req.Config)
	assert.Equal(t, def.Description, req.Description)
}

func TestDefinition_Request_PassesValidation(t *testing.T) {
	def, err := Parse([]byte(yamlDefinition))
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, reg.Register(registry.AgentInfo{
		ID: "extractor", Name: "Extractor", Tools: []registry.ToolInfo{{Name: "extract"}},
	}))
	require.NoError(t, reg.Register(registry.AgentInfo{
		ID: "loader", Name: "Loader", Tools: []registry.ToolInfo{{Name: "load"}},
	}))

	v := engine.New(reg, invoker.NewSimulated()).ValidateWorkflow(def.Request())
	assert.True(t, v.Valid, "errors: %v", v.Errors)
}

func TestRequestSchema(t *testing.T) {
	data, err := RequestSchemaJSON()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "pattern")
	assert.Contains(t, props, "agents")

	required, ok := schema["required"].([]any)
	require.True(t, ok)
	assert.Contains(t, required, "pattern")
	assert.Contains(t, required, "agents")
}

func TestDefinitionSchema(t *testing.T) {
	schema := DefinitionSchema()
	require.NotNil(t, schema)
	assert.NotNil(t, schema.Properties)
}
