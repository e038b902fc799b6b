package script

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const wireSchemaURL = "schema://lesson-script.json"

// wireSchema describes the Lesson Script document accepted by players.
const wireSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title", "startEvent", "lessonEvents"],
  "properties": {
    "title": {"type": "string"},
    "startEvent": {"type": "string", "minLength": 1},
    "chapter": {"type": "string"},
    "subject": {"type": "string"},
    "lessonEvents": {
      "type": "object",
      "additionalProperties": {"$ref": "#/$defs/event"}
    }
  },
  "$defs": {
    "event": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"enum": ["TEACH", "INTERACT", "CHOICE", "WAIT"]}
      },
      "allOf": [
        {
          "if": {"properties": {"type": {"enum": ["TEACH", "INTERACT"]}}},
          "then": {
            "required": ["next", "avatar", "speech"],
            "properties": {
              "next": {"type": "string", "minLength": 1},
              "avatar": {
                "type": "object",
                "required": ["gesture"],
                "properties": {"gesture": {"type": "string"}}
              },
              "speech": {
                "type": "object",
                "required": ["content"],
                "properties": {"content": {"type": "string"}}
              },
              "whiteboard": {
                "type": "object",
                "properties": {
                  "elements": {"type": "array", "items": {"$ref": "#/$defs/element"}}
                }
              }
            }
          }
        },
        {
          "if": {"properties": {"type": {"const": "CHOICE"}}},
          "then": {
            "required": ["choices"],
            "properties": {
              "choices": {
                "type": "array",
                "minItems": 1,
                "items": {
                  "type": "object",
                  "required": ["condition", "nextEvent"],
                  "properties": {
                    "condition": {"type": "string"},
                    "value": {"type": "boolean"},
                    "nextEvent": {"type": "string", "minLength": 1}
                  }
                }
              }
            }
          }
        },
        {
          "if": {"properties": {"type": {"const": "WAIT"}}},
          "then": {
            "required": ["waitTime", "next"],
            "properties": {
              "waitTime": {"type": "integer", "minimum": 0},
              "next": {"type": "string", "minLength": 1}
            }
          }
        }
      ]
    },
    "element": {
      "type": "object",
      "required": ["type", "elementId"],
      "properties": {
        "type": {"enum": ["TEXT", "EQUATION", "MCQ", "TABLE2"]},
        "elementId": {"type": "string", "minLength": 1},
        "animation": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["type", "duration"],
            "properties": {
              "type": {"type": "string"},
              "duration": {"type": "integer", "minimum": 0}
            }
          }
        }
      },
      "allOf": [
        {
          "if": {"properties": {"type": {"const": "MCQ"}}},
          "then": {
            "required": ["questionType", "question", "options", "correctOptions"],
            "properties": {
              "questionType": {"enum": ["SINGLE", "MULTIPLE"]},
              "options": {"type": "object", "additionalProperties": {"type": "string"}},
              "correctOptions": {"type": "array", "items": {"type": "string"}}
            }
          }
        },
        {
          "if": {"properties": {"type": {"const": "EQUATION"}}},
          "then": {"required": ["katexContent"]}
        },
        {
          "if": {"properties": {"type": {"const": "TEXT"}}},
          "then": {"required": ["content"], "properties": {"content": {"type": "string"}}}
        }
      ]
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(wireSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(wireSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(wireSchemaURL)
	})
	return compiledSchema, compileErr
}

// ValidateJSON checks a raw document against the wire schema. It does not
// perform the graph checks of Validate.
func ValidateJSON(raw []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("compile lesson script schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
