package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const categorySchemaURL = "schema://category.json"

// categorySchema describes one category data file.
var categorySchema = map[string]any{
	"type":     "object",
	"required": []string{"id", "name", "icon", "lessons"},
	"properties": map[string]any{
		"id":   map[string]any{"type": "string", "pattern": "^[a-z0-9-]+$"},
		"name": map[string]any{"type": "string", "minLength": 1},
		"icon": map[string]any{"type": "string"},
		"lessons": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    lessonSchema,
		},
	},
	"additionalProperties": false,
}

var lessonSchema = map[string]any{
	"type":     "object",
	"required": []string{"id", "title", "subtitle", "meta", "content"},
	"properties": map[string]any{
		"id":       map[string]any{"type": "string", "pattern": "^[a-z0-9-]+$"},
		"title":    map[string]any{"type": "string", "minLength": 1},
		"subtitle": map[string]any{"type": "string"},
		"meta": map[string]any{
			"type":     "object",
			"required": []string{"duration", "difficulty"},
			"properties": map[string]any{
				"duration":   map[string]any{"type": "string"},
				"difficulty": map[string]any{"enum": []string{"Beginner", "Intermediate", "Advanced"}},
			},
		},
		"content": map[string]any{
			"type":     "object",
			"required": []string{"interactive_code"},
			"properties": map[string]any{
				"explanation": map[string]any{"type": "string"},
				"code_example": map[string]any{
					"type":     "object",
					"required": []string{"language", "code"},
					"properties": map[string]any{
						"language": map[string]any{"type": "string"},
						"code":     map[string]any{"type": "string"},
						"filename": map[string]any{"type": "string"},
					},
				},
				"interactive_code": map[string]any{
					"type":     "object",
					"required": []string{"default_code", "simulated_output"},
					"properties": map[string]any{
						"default_code":     map[string]any{"type": "string"},
						"simulated_output": map[string]any{"type": "string"},
					},
				},
				"quiz": map[string]any{
					"type":     "object",
					"required": []string{"question", "options"},
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []string{"text", "correct", "explanation"},
								"properties": map[string]any{
									"text":        map[string]any{"type": "string"},
									"correct":     map[string]any{"type": "boolean"},
									"explanation": map[string]any{"type": "string"},
								},
							},
						},
					},
				},
			},
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// compiledCategorySchema compiles categorySchema once.
func compiledCategorySchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := toJSONValue(categorySchema)
		if err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(categorySchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(categorySchemaURL)
	})
	return compiledSchema, compileErr
}

// toJSONValue round-trips v through encoding/json so the validator sees
// plain JSON types (map[string]any, []any, float64, ...).
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
