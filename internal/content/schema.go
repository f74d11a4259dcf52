package content

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://course.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func stringProp() map[string]any { return map[string]any{"type": "string"} }

func stringList() map[string]any {
	return map[string]any{"type": "array", "items": stringProp()}
}

func kindEnum() []any {
	kinds := ExerciseKinds()
	out := make([]any, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

var exerciseDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":           stringProp(),
		"type":         map[string]any{"enum": kindEnum()},
		"prompt":       stringProp(),
		"options":      stringList(),
		"correctIndex": map[string]any{"type": "integer", "minimum": 0},
		"sentence":     stringProp(),
		"answers":      stringList(),
		"items":        stringList(),
		"correctOrder": map[string]any{"type": "array", "items": map[string]any{"type": "integer", "minimum": 0}},
		"pairs": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":       "object",
				"properties": map[string]any{"left": stringProp(), "right": stringProp()},
			},
		},
		"rightOptions": stringList(),
	},
	"required": []any{"type"},
}

func exerciseList() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"$ref": "#/$defs/exercise"}}
}

// courseSchema is permissive: unknown fields are allowed, known fields must
// carry the right type.
var courseSchema = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "object",
	"$defs": map[string]any{
		"exercise": exerciseDef,
		"lesson": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":             stringProp(),
				"title":          stringProp(),
				"type":           map[string]any{"enum": []any{"video", "text"}},
				"text":           stringProp(),
				"video":          stringProp(),
				"videoUrl":       stringProp(),
				"pdf":            stringProp(),
				"pdfUrl":         stringProp(),
				"document":       stringProp(),
				"exercises":      exerciseList(),
				"forceExercises": map[string]any{"type": "boolean"},
				"finalMessage":   stringProp(),
			},
		},
		"unit": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":               stringProp(),
				"title":            stringProp(),
				"description":      stringProp(),
				"intro":            stringProp(),
				"closingText":      stringProp(),
				"closingExercises": exerciseList(),
				"lessons":          map[string]any{"type": "array", "items": map[string]any{"$ref": "#/$defs/lesson"}},
			},
		},
	},
	"properties": map[string]any{
		"id":          stringProp(),
		"title":       stringProp(),
		"description": stringProp(),
		"units":       map[string]any{"type": "array", "items": map[string]any{"$ref": "#/$defs/unit"}},
		"finalExam": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":     stringProp(),
				"intro":     stringProp(),
				"video":     stringProp(),
				"videoUrl":  stringProp(),
				"exercises": exerciseList(),
			},
		},
		"capstone": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":        stringProp(),
				"instructions": stringProp(),
				"checklist":    stringList(),
			},
		},
		"courseWrap": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":    stringProp(),
				"text":     stringProp(),
				"video":    stringProp(),
				"videoUrl": stringProp(),
			},
		},
	},
}

// Validate checks a raw course document against the ingestion schema.
// The normalizer accepts anything; Validate is for authoring surfaces that
// want to reject wrong-typed fields up front.
func Validate(raw any) error {
	sch, err := getSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(raw); err != nil {
		return fmt.Errorf("course document invalid: %w", err)
	}
	return nil
}

func getSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		// The compiler wants a plain decoded JSON value.
		b, err := json.Marshal(courseSchema)
		if err != nil {
			schemaErr = fmt.Errorf("marshal course schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(b, &def); err != nil {
			schemaErr = fmt.Errorf("parse course schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile course schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}
