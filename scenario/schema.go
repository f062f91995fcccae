package scenario

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of scenario files.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return "scenario." + t.Name()
	}

	schema := reflector.Reflect(&Scenario{})
	schema.Title = "adcue scenario"
	return schema
}
