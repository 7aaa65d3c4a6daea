package ui

import (
	"strings"
	"testing"

	"grainfall/internal/material"
)

func TestPaintableMaterialsFoldVariantsIntoBase(t *testing.T) {
	reg, errs := material.Build(material.DefaultPack(), 7)
	if len(errs) != 0 {
		t.Fatalf("default pack build errors: %v", errs)
	}

	entries := PaintableMaterials(reg)
	if len(entries) == 0 {
		t.Fatal("no paintable materials from the default pack")
	}

	var sand *MaterialEntry
	for i := range entries {
		e := &entries[i]
		if e.ID == material.VoidID {
			t.Fatal("void offered as a brush")
		}
		if strings.Contains(e.ID, "/") {
			t.Fatalf("variant %q listed as its own entry", e.ID)
		}
		if e.ID == "sand" {
			sand = e
		}
	}
	if sand == nil {
		t.Fatal("sand missing from the strip")
	}
	if len(sand.Variants) != 3 {
		t.Fatalf("sand carries %d variants, want 3", len(sand.Variants))
	}
	for _, v := range sand.Variants {
		d, err := reg.Get(v)
		if err != nil {
			t.Fatalf("variant index %d unresolvable: %v", v, err)
		}
		if !strings.HasPrefix(d.ID, "sand/") {
			t.Fatalf("sand variant resolves to %q", d.ID)
		}
	}
}

func TestPickIndexSpreadsAcrossVariants(t *testing.T) {
	e := MaterialEntry{Index: 5, Variants: []material.Index{9, 10, 11}}

	if got := e.PickIndex(func(int) int { return 0 }); got != 5 {
		t.Fatalf("pick 0 = %d, want base 5", got)
	}
	if got := e.PickIndex(func(int) int { return 2 }); got != 10 {
		t.Fatalf("pick 2 = %d, want variant 10", got)
	}
	if got := e.PickIndex(nil); got != 5 {
		t.Fatalf("nil source = %d, want base 5", got)
	}

	plain := MaterialEntry{Index: 3}
	if got := plain.PickIndex(func(int) int { return 7 }); got != 3 {
		t.Fatalf("variant-free pick = %d, want base 3", got)
	}
}

func TestBrushRadiusClamps(t *testing.T) {
	b := NewBrush()
	for i := 0; i < 200; i++ {
		b.Grow()
	}
	if b.Radius != MaxBrushRadius {
		t.Fatalf("radius = %d, want cap %d", b.Radius, MaxBrushRadius)
	}
	for i := 0; i < 200; i++ {
		b.Shrink()
	}
	if b.Radius != MinBrushRadius {
		t.Fatalf("radius = %d, want floor %d", b.Radius, MinBrushRadius)
	}

	b.Select(3, 4)
	if b.Entry != 3 {
		t.Fatalf("entry = %d, want 3", b.Entry)
	}
	b.Select(4, 4)
	if b.Entry != 3 {
		t.Fatalf("out-of-range select moved the entry to %d", b.Entry)
	}
	b.Select(-1, 4)
	if b.Entry != 3 {
		t.Fatalf("negative select moved the entry to %d", b.Entry)
	}
}
