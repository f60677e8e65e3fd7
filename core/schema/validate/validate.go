package validate

import (
	"embed"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"github.com/eclipse-che4z/endevor-bridge/core/schema/v1/session"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var schemaFiles = map[session.Kind]string{
	session.KindEditedElement:   "schemas/edited-element.schema.json",
	session.KindComparedElement: "schemas/compared-element.schema.json",
}

var (
	compileOnce sync.Once
	compileErr  error
	compiled    map[session.Kind]*jsonschema.Schema
)

func compileSchemas() {
	compiled = make(map[session.Kind]*jsonschema.Schema, len(schemaFiles))
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	for kind, name := range schemaFiles {
		data, err := schemaFS.ReadFile(name)
		if err != nil {
			compileErr = fmt.Errorf("read schema %s: %w", name, err)
			return
		}
		schema, err := compiler.Compile(data)
		if err != nil {
			compileErr = fmt.Errorf("compile schema %s: %w", name, err)
			return
		}
		compiled[kind] = schema
	}
}

// ValidateSessionPayload checks a raw locator payload against the schema
// for its session kind before the payload is trusted.
func ValidateSessionPayload(kind session.Kind, data []byte) error {
	compileOnce.Do(compileSchemas)
	if compileErr != nil {
		return compileErr
	}
	schema, ok := compiled[kind]
	if !ok {
		return fmt.Errorf("unknown session kind: %s", kind)
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}
