// Package ingest parses Runtime, CodeEvolution, and Settings JSON into
// domain types, validating each document against an embedded JSON Schema
// before decoding — schema enforcement is pushed entirely to this parse
// boundary so internal/domain can stay plain record types with no
// validation logic of its own.
package ingest

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ntrotner/heap-causal-link/internal/domain"
)

//go:embed schema/runtime.schema.json schema/codeevolution.schema.json schema/settings.schema.json
var schemaFS embed.FS

var (
	runtimeSchema       = mustLoadSchema("schema/runtime.schema.json")
	codeEvolutionSchema = mustLoadSchema("schema/codeevolution.schema.json")
	settingsSchema      = mustLoadSchema("schema/settings.schema.json")
)

func mustLoadSchema(path string) *gojsonschema.Schema {
	raw, err := schemaFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("ingest: embedded schema %s missing: %v", path, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("ingest: embedded schema %s invalid: %v", path, err))
	}
	return schema
}

// validate runs raw against schema, returning ErrParsing wrapping every
// validation error's description when it fails.
func validate(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrParsing, err)
	}
	if !result.Valid() {
		msg := ""
		for i, e := range result.Errors() {
			if i > 0 {
				msg += "; "
			}
			msg += e.String()
		}
		return fmt.Errorf("%w: %s", domain.ErrParsing, msg)
	}
	return nil
}

func unmarshalStrict(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrParsing, err)
	}
	return nil
}
