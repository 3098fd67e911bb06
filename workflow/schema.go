package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/lfaley/taskmesh/core"
)

// RequestSchema reflects the JSON schema of core.OrchestrationRequest.
// Remote callers can validate workflow documents against it before
// submitting, getting the same structural errors the engine would raise.
func RequestSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return r.Reflect(&core.OrchestrationRequest{})
}

// RequestSchemaJSON renders the request schema as indented JSON.
func RequestSchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(RequestSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal request schema: %w", err)
	}
	return data, nil
}

// DefinitionSchema reflects the JSON schema of a stored workflow Definition.
func DefinitionSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return r.Reflect(&Definition{})
}
