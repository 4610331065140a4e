package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func analysisSchemaMap() map[string]any {
	score := map[string]any{"type": "number"}
	list := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]any{
			"clarity_score":   score,
			"inclusion_score": score,
			"seo_score":       score,
			"overall_score":   score,
			"bias_flags":      list,
			"seo_keywords":    list,
			"suggestions":     list,
		},
		"required": []string{"clarity_score", "inclusion_score", "seo_score", "overall_score"},
	}
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func analysisSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := json.Marshal(analysisSchemaMap())
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("analysis.json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("analysis.json")
	})
	return compiledSchema, schemaErr
}

// ValidateAnalysisJSON checks raw model output against the analysis schema.
func ValidateAnalysisJSON(data []byte) error {
	schema, err := analysisSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
