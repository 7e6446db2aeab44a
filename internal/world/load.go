package world

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// mapSchema validates the map description file before decoding. The file is
// produced by a separately maintained extraction tool, so a clear validation
// error beats a half-decoded layout.
const mapSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["roads"],
  "properties": {
    "roads": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "orientation", "x", "z", "width", "depth"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "orientation": {"enum": ["vertical", "horizontal"]},
          "x": {"type": "number"},
          "z": {"type": "number"},
          "width": {"type": "number", "exclusiveMinimum": 0},
          "depth": {"type": "number", "exclusiveMinimum": 0}
        }
      }
    },
    "lots": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "outline"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "address": {"type": "string"},
          "usage": {"enum": ["residential", "commercial", "park", "vacant"]},
          "outline": {
            "type": "object",
            "required": ["vertices"],
            "properties": {
              "vertices": {
                "type": "array",
                "items": {
                  "type": "object",
                  "required": ["x", "z"],
                  "properties": {
                    "x": {"type": "number"},
                    "z": {"type": "number"}
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

var compiledMapSchema = jsonschema.MustCompileString("map.schema.json", mapSchema)

// Load reads and validates a map description file.
func Load(path string) (*Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	return Decode(raw)
}

// Decode validates and decodes a raw map description.
func Decode(raw []byte) (*Layout, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}
	if err := compiledMapSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("map schema: %w", err)
	}

	var layout Layout
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&layout); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("map: %w", err)
	}
	return &layout, nil
}
