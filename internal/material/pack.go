package material

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Pack is the on-disk form of a material set.
type Pack struct {
	Materials []Def        `yaml:"materials"`
	Variants  []VariantDef `yaml:"variants,omitempty"`
}

// VariantDef asks the registry to derive tinted copies of a base material.
type VariantDef struct {
	Base        string  `yaml:"base"`
	Count       int     `yaml:"count"`
	TintPercent float64 `yaml:"tint_percent"`
}

// ParsePack decodes a pack from YAML bytes.
func ParsePack(b []byte) (Pack, error) {
	var p Pack
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Pack{}, fmt.Errorf("material pack: %w", err)
	}
	return p, nil
}

// LoadPack reads a pack file. An empty path yields the built-in default set.
func LoadPack(path string) (Pack, error) {
	if path == "" {
		return DefaultPack(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, err
	}
	p, err := ParsePack(b)
	if err != nil {
		return Pack{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Build registers a pack onto a fresh registry. Bad entries, base
// definitions and variant blocks alike, are skipped and reported so one
// broken entry cannot take down the rest of the pack.
func Build(p Pack, seed int64) (*Registry, []error) {
	reg := NewRegistry(seed)
	errs := reg.RegisterBase(p.Materials)
	for _, v := range p.Variants {
		if err := reg.RegisterVariants(v.Base, v.Count, v.TintPercent); err != nil {
			log.Printf("material: skipping variants of %q: %v", v.Base, err)
			errs = append(errs, err)
		}
	}
	return reg, errs
}
