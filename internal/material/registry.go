package material

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"sync"

	"grainfall/pkg/core"
)

var (
	// ErrNotFound reports a lookup of an index the registry never issued.
	ErrNotFound = errors.New("material not found")
	// ErrInvalidDefinition reports a definition rejected during registration.
	ErrInvalidDefinition = errors.New("invalid material definition")
)

// Well-known identifiers the reaction rules key on. Packs that omit them
// simply never trigger the corresponding reactions.
const (
	FireID  = "fire"
	WaterID = "water"
)

const maxMaterials = math.MaxUint16 + 1

// Registry assigns dense indices to material definitions in first-seen
// order and resolves their behaviors once so the tick loop works on
// integers only. Index 0 is always the void material. Registration is
// single-threaded; the first Behaviors or Palette call freezes the
// registry, after which lookups are safe for concurrent use and further
// registration is rejected.
type Registry struct {
	defs []Def
	byID map[string]Index
	rng  *core.RNG

	behaviors []Behavior
	palette   []color.RGBA
	once      sync.Once
	frozen    bool
}

// NewRegistry returns a registry holding only the void material. The seed
// drives variant tint derivation, so equal seeds yield equal palettes.
func NewRegistry(seed int64) *Registry {
	r := &Registry{
		byID: make(map[string]Index),
		rng:  core.NewRNG(seed),
	}
	r.defs = append(r.defs, Def{
		ID:          VoidID,
		Name:        "Void",
		Temperature: 22,
	})
	r.byID[VoidID] = Void
	return r
}

// RegisterBase registers definitions in the order given. Invalid entries
// are skipped and reported; registration continues so one bad definition
// cannot take down a whole pack. The returned errors all match
// ErrInvalidDefinition.
func (r *Registry) RegisterBase(defs []Def) []error {
	var errs []error
	for _, d := range defs {
		if err := r.register(d); err != nil {
			log.Printf("material: skipping %q: %v", d.ID, err)
			errs = append(errs, err)
		}
	}
	return errs
}

// RegisterVariants derives count tinted copies of an already-registered
// base material. Variant n is registered as "<baseID>/<n>" with each color
// channel scaled by a seed-derived factor within ±tintPercent. An unknown
// base makes the whole variant block invalid; callers skip it and move on.
func (r *Registry) RegisterVariants(baseID string, count int, tintPercent float64) error {
	if count < 1 {
		return fmt.Errorf("%w: %q: variant count %d", ErrInvalidDefinition, baseID, count)
	}
	if tintPercent < 0 || tintPercent > 100 {
		return fmt.Errorf("%w: %q: tint percent %g out of range", ErrInvalidDefinition, baseID, tintPercent)
	}
	base, ok := r.byID[baseID]
	if !ok {
		return fmt.Errorf("%w: variant base %q not registered", ErrInvalidDefinition, baseID)
	}
	for n := 1; n <= count; n++ {
		d := r.defs[base]
		d.ID = fmt.Sprintf("%s/%d", baseID, n)
		factor := 1 + (r.rng.Float64()*2-1)*tintPercent/100
		d.Color = RGB{
			R: scaleChannel(d.Color.R, factor),
			G: scaleChannel(d.Color.G, factor),
			B: scaleChannel(d.Color.B, factor),
		}
		if err := r.register(d); err != nil {
			return err
		}
	}
	return nil
}

func scaleChannel(c uint8, factor float64) uint8 {
	v := math.Round(float64(c) * factor)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func (r *Registry) register(d Def) error {
	if r.frozen {
		return fmt.Errorf("%w: %q: registry already in use", ErrInvalidDefinition, d.ID)
	}
	if err := validate(d); err != nil {
		return err
	}
	if _, dup := r.byID[d.ID]; dup {
		return fmt.Errorf("%w: duplicate id %q", ErrInvalidDefinition, d.ID)
	}
	if len(r.defs) >= maxMaterials {
		return fmt.Errorf("%w: %q: registry full", ErrInvalidDefinition, d.ID)
	}
	caps, err := ParseCaps(d.CapList)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidDefinition, d.ID, err)
	}
	d.Caps = caps
	idx := Index(len(r.defs))
	r.defs = append(r.defs, d)
	r.byID[d.ID] = idx
	return nil
}

func validate(d Def) error {
	if d.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	}
	states := 0
	for _, s := range d.CapList {
		switch s {
		case "solid", "liquid", "gas":
			states++
		}
	}
	if states > 1 {
		return fmt.Errorf("%w: %q: more than one of solid/liquid/gas", ErrInvalidDefinition, d.ID)
	}
	if d.Density < 0 {
		return fmt.Errorf("%w: %q: negative density", ErrInvalidDefinition, d.ID)
	}
	if d.Lifespan < 0 || d.Lifespan > 255 {
		return fmt.Errorf("%w: %q: lifespan %d out of range", ErrInvalidDefinition, d.ID, d.Lifespan)
	}
	for _, p := range []struct {
		name string
		v    float32
	}{
		{"corrodes", d.Corrodes},
		{"catches_fire", d.CatchesFire},
		{"grows_near_water", d.GrowsNearWater},
	} {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("%w: %q: %s probability %g out of range", ErrInvalidDefinition, d.ID, p.name, p.v)
		}
	}
	if d.BoilsAt != nil && d.BoilsInto == "" {
		return fmt.Errorf("%w: %q: boils_at without boils_into", ErrInvalidDefinition, d.ID)
	}
	if d.SolidifiesAt != nil && d.SolidifiesInto == "" {
		return fmt.Errorf("%w: %q: solidifies_at without solidifies_into", ErrInvalidDefinition, d.ID)
	}
	// A missing product would resolve to index 0 and corrosion would erase
	// the neighbor instead of converting it.
	if d.Corrodible && d.CorrodesInto == "" {
		return fmt.Errorf("%w: %q: corrodible without corrodes_into", ErrInvalidDefinition, d.ID)
	}
	if d.GrowsNearWater > 0 && d.GrowsInto == "" {
		return fmt.Errorf("%w: %q: grows_near_water without grows_into", ErrInvalidDefinition, d.ID)
	}
	if d.Lifespan == 0 && d.DecaysInto != "" {
		return fmt.Errorf("%w: %q: decays_into without lifespan", ErrInvalidDefinition, d.ID)
	}
	return nil
}

// IndexOf returns the dense index of an identifier.
func (r *Registry) IndexOf(id string) (Index, bool) {
	idx, ok := r.byID[id]
	return idx, ok
}

// Get returns the definition behind an index.
func (r *Registry) Get(idx Index) (*Def, error) {
	if int(idx) >= len(r.defs) {
		return nil, fmt.Errorf("%w: index %d", ErrNotFound, idx)
	}
	return &r.defs[idx], nil
}

// Count returns the number of registered materials, void included.
func (r *Registry) Count() int { return len(r.defs) }

// Fire returns the index of the well-known fire material.
func (r *Registry) Fire() (Index, bool) { return r.IndexOf(FireID) }

// Water returns the index of the well-known water material.
func (r *Registry) Water() (Index, bool) { return r.IndexOf(WaterID) }

// Palette returns one display color per index. Void maps to opaque black.
func (r *Registry) Palette() []color.RGBA {
	r.resolve()
	out := make([]color.RGBA, len(r.palette))
	copy(out, r.palette)
	return out
}

// Behaviors returns the per-index dispatch table. The slice is shared, not
// copied; callers must treat it as read-only.
func (r *Registry) Behaviors() []Behavior {
	r.resolve()
	return r.behaviors
}

// Digest returns a hex sha256 over the ordered identifier list. Two
// registries with the same digest assign the same meaning to every index,
// which is what snapshots check before restoring.
func (r *Registry) Digest() string {
	ids := make([]string, len(r.defs))
	for i, d := range r.defs {
		ids[i] = d.ID
	}
	b, _ := json.Marshal(ids)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// resolve builds the behavior table and palette exactly once and freezes
// the registry against further registration. Link targets that do not
// resolve disable just that rule; the material itself stays registered.
func (r *Registry) resolve() {
	r.once.Do(r.buildTables)
}

func (r *Registry) buildTables() {
	r.frozen = true
	_, hasFire := r.byID[FireID]
	_, hasWater := r.byID[WaterID]

	r.behaviors = make([]Behavior, len(r.defs))
	r.palette = make([]color.RGBA, len(r.defs))
	for i, d := range r.defs {
		b := Behavior{
			Caps:        d.Caps,
			Density:     d.Density,
			Temp:        d.Temperature,
			Corrodes:    d.Corrodes,
			CatchesFire: d.CatchesFire,
		}
		if d.BoilsAt != nil {
			if to, ok := r.byID[d.BoilsInto]; ok {
				b.HasBoil = true
				b.BoilsAt = *d.BoilsAt
				b.BoilsInto = to
			} else {
				log.Printf("material: %q boils into unknown %q, rule disabled", d.ID, d.BoilsInto)
			}
		}
		if d.SolidifiesAt != nil {
			if to, ok := r.byID[d.SolidifiesInto]; ok {
				b.HasSolidify = true
				b.SolidifiesAt = *d.SolidifiesAt
				b.SolidifiesInto = to
			} else {
				log.Printf("material: %q solidifies into unknown %q, rule disabled", d.ID, d.SolidifiesInto)
			}
		}
		if d.IgnitesAt != nil {
			if hasFire {
				b.HasIgnite = true
				b.IgnitesAt = *d.IgnitesAt
			} else {
				log.Printf("material: %q ignites but no %q registered, rule disabled", d.ID, FireID)
			}
		}
		if d.CatchesFire > 0 && !hasFire {
			b.CatchesFire = 0
			log.Printf("material: %q catches fire but no %q registered, rule disabled", d.ID, FireID)
		}
		if d.Corrodible {
			if to, ok := r.byID[d.CorrodesInto]; ok {
				b.Corrodible = true
				b.CorrodesInto = to
			} else {
				log.Printf("material: %q corrodes into unknown %q, rule disabled", d.ID, d.CorrodesInto)
			}
		}
		if d.GrowsNearWater > 0 {
			to, ok := r.byID[d.GrowsInto]
			switch {
			case !hasWater:
				log.Printf("material: %q grows but no %q registered, rule disabled", d.ID, WaterID)
			case !ok:
				log.Printf("material: %q grows into unknown %q, rule disabled", d.ID, d.GrowsInto)
			default:
				b.GrowsNearWater = d.GrowsNearWater
				b.GrowsInto = to
			}
		}
		if d.Lifespan > 0 {
			b.Lifespan = uint8(d.Lifespan)
			if d.DecaysInto != "" {
				if to, ok := r.byID[d.DecaysInto]; ok {
					b.DecaysInto = to
				} else {
					b.Lifespan = 0
					log.Printf("material: %q decays into unknown %q, rule disabled", d.ID, d.DecaysInto)
				}
			}
		}
		r.behaviors[i] = b
		r.palette[i] = color.RGBA{R: d.Color.R, G: d.Color.G, B: d.Color.B, A: 255}
	}
}
