package material_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"grainfall/internal/material"
)

// TestPackSchema_ValidatesShippedConfig checks the shipped pack file against
// the pack schema, and that it still builds cleanly.
func TestPackSchema_ValidatesShippedConfig(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "materials.schema.json"))
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join("..", "..", "configs", "materials.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	// Round-trip through JSON so the validator sees json-native types.
	jb, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var v any
	if err := json.Unmarshal(jb, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := schema.Validate(v); err != nil {
		t.Fatalf("validate: %v", err)
	}

	p, err := material.ParsePack(raw)
	if err != nil {
		t.Fatalf("ParsePack: %v", err)
	}
	reg, errs := material.Build(p, 1)
	if len(errs) != 0 {
		t.Fatalf("shipped pack has invalid entries: %v", errs)
	}
	if _, ok := reg.Fire(); !ok {
		t.Fatal("shipped pack should define fire")
	}
	if _, ok := reg.Water(); !ok {
		t.Fatal("shipped pack should define water")
	}
}

// TestPackSchema_RejectsBadEntry makes sure the schema actually constrains
// the fields the engine depends on.
func TestPackSchema_RejectsBadEntry(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "materials.schema.json"))
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}

	var v any
	_ = json.Unmarshal([]byte(`{
	  "materials": [
	    {"id": "x", "name": "X", "color": {"r": 300, "g": 0, "b": 0}, "caps": ["plasma"]}
	  ]
	}`), &v)
	if err := schema.Validate(v); err == nil {
		t.Fatal("schema accepted out-of-range color and unknown capability")
	}

	_ = json.Unmarshal([]byte(`{
	  "materials": [
	    {"id": "y", "name": "Y", "color": {"r": 0, "g": 0, "b": 0}, "corrodible": true}
	  ]
	}`), &v)
	if err := schema.Validate(v); err == nil {
		t.Fatal("schema accepted corrodible without corrodes_into")
	}
}
