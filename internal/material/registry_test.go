package material

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func TestNewRegistryReservesVoid(t *testing.T) {
	reg := NewRegistry(1)

	if reg.Count() != 1 {
		t.Fatalf("fresh registry count = %d, want 1", reg.Count())
	}
	idx, ok := reg.IndexOf(VoidID)
	if !ok || idx != Void {
		t.Fatalf("void index = %d ok=%v, want 0 true", idx, ok)
	}
	d, err := reg.Get(Void)
	if err != nil {
		t.Fatalf("Get(Void): %v", err)
	}
	if d.ID != VoidID {
		t.Fatalf("Get(Void).ID = %q", d.ID)
	}
}

func TestRegisterBaseFirstSeenOrder(t *testing.T) {
	reg := NewRegistry(1)
	errs := reg.RegisterBase([]Def{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
		{ID: "c", Name: "C"},
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	for i, id := range []string{"a", "b", "c"} {
		idx, ok := reg.IndexOf(id)
		if !ok {
			t.Fatalf("%q not registered", id)
		}
		if idx != Index(i+1) {
			t.Fatalf("%q index = %d, want %d", id, idx, i+1)
		}
	}
}

func TestRegisterBaseSkipsInvalidAndContinues(t *testing.T) {
	reg := NewRegistry(1)
	errs := reg.RegisterBase([]Def{
		{ID: "good", Name: "Good"},
		{ID: "", Name: "NoID"},
		{ID: "badcap", Name: "BadCap", CapList: []string{"plasma"}},
		{ID: "good", Name: "Duplicate"},
		{ID: "badprob", Name: "BadProb", Corrodes: 1.5},
		{ID: "also-good", Name: "AlsoGood"},
	})

	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(errs), errs)
	}
	for _, err := range errs {
		if !errors.Is(err, ErrInvalidDefinition) {
			t.Fatalf("error %v does not match ErrInvalidDefinition", err)
		}
	}

	if reg.Count() != 3 {
		t.Fatalf("count = %d, want 3 (void + two valid)", reg.Count())
	}
	if idx, ok := reg.IndexOf("also-good"); !ok || idx != 2 {
		t.Fatalf("also-good index = %d ok=%v, want 2 true", idx, ok)
	}
}

func TestGetOutOfRange(t *testing.T) {
	reg := NewRegistry(1)
	if _, err := reg.Get(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(42) err = %v, want ErrNotFound", err)
	}
}

func TestVariantsDeterministicPerSeed(t *testing.T) {
	base := []Def{{ID: "dust", Name: "Dust", Color: RGB{R: 120, G: 120, B: 120}}}

	a := NewRegistry(7)
	a.RegisterBase(base)
	if err := a.RegisterVariants("dust", 3, 50); err != nil {
		t.Fatalf("RegisterVariants: %v", err)
	}
	b := NewRegistry(7)
	b.RegisterBase(base)
	if err := b.RegisterVariants("dust", 3, 50); err != nil {
		t.Fatalf("RegisterVariants: %v", err)
	}

	if a.Count() != 5 {
		t.Fatalf("count = %d, want 5", a.Count())
	}
	if _, ok := a.IndexOf("dust/3"); !ok {
		t.Fatal("dust/3 not registered")
	}
	if !slices.Equal(a.Palette(), b.Palette()) {
		t.Fatal("same seed produced different variant palettes")
	}

	c := NewRegistry(8)
	c.RegisterBase(base)
	if err := c.RegisterVariants("dust", 3, 50); err != nil {
		t.Fatalf("RegisterVariants: %v", err)
	}
	if slices.Equal(a.Palette(), c.Palette()) {
		t.Fatal("different seeds should produce different variant palettes")
	}
}

func TestVariantsUnknownBaseIsSkippedNotFatal(t *testing.T) {
	reg := NewRegistry(1)
	if err := reg.RegisterVariants("ghost", 2, 10); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("err = %v, want ErrInvalidDefinition", err)
	}

	// A pack with a dangling variant block still builds the rest.
	p := Pack{
		Materials: []Def{{ID: "dust", Name: "Dust"}},
		Variants: []VariantDef{
			{Base: "ghost", Count: 2, TintPercent: 10},
			{Base: "dust", Count: 1, TintPercent: 5},
		},
	}
	built, errs := Build(p, 1)
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidDefinition) {
		t.Fatalf("errs = %v, want one ErrInvalidDefinition", errs)
	}
	if built.Count() != 3 {
		t.Fatalf("count = %d, want 3 (void + dust + dust/1)", built.Count())
	}
}

func TestBehaviorsResolveForwardLinks(t *testing.T) {
	reg, errs := Build(DefaultPack(), 1)
	if len(errs) != 0 {
		t.Fatalf("default pack has invalid entries: %v", errs)
	}

	idx := func(id string) Index {
		i, ok := reg.IndexOf(id)
		if !ok {
			t.Fatalf("%q missing from default pack", id)
		}
		return i
	}
	beh := reg.Behaviors()

	water := beh[idx("water")]
	if !water.HasBoil || water.BoilsInto != idx("steam") {
		t.Fatalf("water boil = %+v, want link to steam", water)
	}
	steam := beh[idx("steam")]
	if !steam.HasSolidify || steam.SolidifiesInto != idx("water") {
		t.Fatalf("steam solidify = %+v, want link to water", steam)
	}
	metal := beh[idx("metal")]
	if !metal.Corrodible || metal.CorrodesInto != idx("rust") {
		t.Fatalf("metal corrosion = %+v, want link to rust", metal)
	}
	fire := beh[idx("fire")]
	if fire.Lifespan != 30 || fire.DecaysInto != idx("smoke") {
		t.Fatalf("fire decay = %+v, want lifespan 30 into smoke", fire)
	}
	seed := beh[idx("seed")]
	if seed.GrowsNearWater == 0 || seed.GrowsInto != idx("plant") {
		t.Fatalf("seed growth = %+v, want link to plant", seed)
	}

	if !beh[idx("wall")].Caps.Has(CapStatic) || beh[idx("wall")].Movable() {
		t.Fatal("wall must be static and immovable")
	}
	if !beh[idx("sand")].Movable() {
		t.Fatal("sand must be movable")
	}
}

func TestConcurrentLookupsAfterBuild(t *testing.T) {
	reg, errs := Build(DefaultPack(), 1)
	if len(errs) != 0 {
		t.Fatalf("default pack has invalid entries: %v", errs)
	}

	// Headless runners hand one registry to every worker; the behavior and
	// palette tables must build once and read cleanly under -race.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if len(reg.Behaviors()) != reg.Count() {
					t.Error("behavior table length diverged from registry count")
					return
				}
				if len(reg.Palette()) != reg.Count() {
					t.Error("palette length diverged from registry count")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestRegistrationRejectedAfterFirstUse(t *testing.T) {
	reg := NewRegistry(1)
	if errs := reg.RegisterBase([]Def{{ID: "a", Name: "A"}}); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	_ = reg.Behaviors()

	errs := reg.RegisterBase([]Def{{ID: "b", Name: "B"}})
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidDefinition) {
		t.Fatalf("errs = %v, want one ErrInvalidDefinition after freeze", errs)
	}
	if _, ok := reg.IndexOf("b"); ok {
		t.Fatal("registration after first use must not take effect")
	}
	if err := reg.RegisterVariants("a", 1, 5); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("variant err = %v, want ErrInvalidDefinition after freeze", err)
	}
}

func TestCorrodibleRequiresTarget(t *testing.T) {
	reg := NewRegistry(1)
	errs := reg.RegisterBase([]Def{{
		ID: "tin", Name: "Tin",
		CapList:    []string{"solid"},
		Corrodible: true,
	}})
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidDefinition) {
		t.Fatalf("errs = %v, want one ErrInvalidDefinition", errs)
	}
	if _, ok := reg.IndexOf("tin"); ok {
		t.Fatal("corrodible material without corrodes_into must be rejected")
	}

	// A target naming an unregistered material disables the rule instead,
	// like the other dangling links; corrosion must never erase to void.
	reg = NewRegistry(1)
	errs = reg.RegisterBase([]Def{{
		ID: "zinc", Name: "Zinc",
		CapList:      []string{"solid"},
		Corrodible:   true,
		CorrodesInto: "ghost",
	}})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	idx, ok := reg.IndexOf("zinc")
	if !ok {
		t.Fatal("zinc should stay registered")
	}
	if b := reg.Behaviors()[idx]; b.Corrodible || b.CorrodesInto != Void {
		t.Fatalf("behavior = %+v, want corrosion disabled", b)
	}
}

func TestDanglingLinkDisablesRuleOnly(t *testing.T) {
	reg := NewRegistry(1)
	errs := reg.RegisterBase([]Def{{
		ID: "brine", Name: "Brine",
		CapList:   []string{"liquid"},
		BoilsAt:   f32(100),
		BoilsInto: "nonexistent",
	}})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	idx, ok := reg.IndexOf("brine")
	if !ok {
		t.Fatal("brine should stay registered")
	}
	if reg.Behaviors()[idx].HasBoil {
		t.Fatal("dangling boils_into should disable the boil rule")
	}
}

func TestDigestTracksRegisteredSet(t *testing.T) {
	a := NewRegistry(1)
	a.RegisterBase([]Def{{ID: "a", Name: "A"}})
	b := NewRegistry(99)
	b.RegisterBase([]Def{{ID: "a", Name: "A"}})

	if a.Digest() != b.Digest() {
		t.Fatal("digest must depend on ids, not seed")
	}

	b.RegisterBase([]Def{{ID: "b", Name: "B"}})
	if a.Digest() == b.Digest() {
		t.Fatal("digest must change when the set changes")
	}
}

func TestParseCapsRejectsUnknown(t *testing.T) {
	if _, err := ParseCaps([]string{"solid", "plasma"}); err == nil {
		t.Fatal("expected error for unknown capability")
	}
	c, err := ParseCaps([]string{"Solid", " static "})
	if err != nil {
		t.Fatalf("ParseCaps: %v", err)
	}
	if !c.Has(CapSolid | CapStatic) {
		t.Fatalf("caps = %b, want solid|static", c)
	}
}

func TestParsePackYAML(t *testing.T) {
	const doc = `
materials:
  - id: dust
    name: Dust
    color: {r: 10, g: 20, b: 30}
    temperature: 22
    density: 1.5
  - id: brine
    name: Brine
    color: {r: 40, g: 60, b: 200}
    caps: [liquid, evaporates]
    density: 1.1
    boils_at: 102
    boils_into: haze
  - id: haze
    name: Haze
    color: {r: 220, g: 220, b: 220}
    caps: [gas]
    density: 0.1
    lifespan: 50
    decays_into: void
variants:
  - base: dust
    count: 2
    tint_percent: 10
`
	p, err := ParsePack([]byte(doc))
	if err != nil {
		t.Fatalf("ParsePack: %v", err)
	}
	if len(p.Materials) != 3 || len(p.Variants) != 1 {
		t.Fatalf("parsed %d materials %d variants, want 3 and 1", len(p.Materials), len(p.Variants))
	}
	brine := p.Materials[1]
	if brine.BoilsAt == nil || *brine.BoilsAt != 102 || brine.BoilsInto != "haze" {
		t.Fatalf("brine thresholds = %+v", brine)
	}

	reg, errs := Build(p, 3)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if reg.Count() != 6 {
		t.Fatalf("count = %d, want 6 (void + 3 + 2 variants)", reg.Count())
	}
	hazeIdx, _ := reg.IndexOf("haze")
	if reg.Behaviors()[hazeIdx].DecaysInto != Void {
		t.Fatal("haze should decay into void")
	}
}
