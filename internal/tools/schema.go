// Package tools holds the pieces shared across capability sets S/V/H:
// schema generation for internally-defined request shapes (as opposed to
// the hand-authored literal schemas in internal/tools/structured, which
// intentionally narrow what the model may submit versus the full stored
// entity shape).
package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

var reflector = &jsonschema.Reflector{
	ExpandedStruct:            true,
	DoNotReference:            true,
	AllowAdditionalProperties: false,
}

// SchemaFor reflects T's JSON tags into a JSON Schema document, grounded
// on the teacher's second jsonschema dependency (github.com/invopop/jsonschema),
// which the teacher's agent package uses to derive tool schemas from Go
// request structs rather than hand-writing them — used here wherever a
// tool's parameter shape is exactly one Go struct with no server-assigned
// fields to strip out.
func SchemaFor[T any]() json.RawMessage {
	var zero T
	schema := reflector.Reflect(zero)
	data, err := json.Marshal(schema)
	if err != nil {
		panic("tools: reflect schema: " + err.Error())
	}
	return data
}
