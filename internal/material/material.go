package material

import (
	"fmt"
	"strings"
)

// Index identifies a registered material in the dense registry table.
type Index uint16

// Void is the reserved index of the empty material. Registries install it
// at construction time; cells holding Void are empty space.
const Void Index = 0

// VoidID is the identifier of the reserved empty material.
const VoidID = "void"

// RGB is a flat display color.
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Caps is a bitset of material capabilities, resolved once at registry
// build time so the tick loop never compares strings.
type Caps uint8

const (
	// CapSolid marks immovable materials that block movement.
	CapSolid Caps = 1 << iota
	// CapLiquid marks materials that fall and then flow laterally.
	CapLiquid
	// CapGas marks materials that rise.
	CapGas
	// CapFlammable marks materials that ignite past their ignition threshold.
	CapFlammable
	// CapEvaporates marks liquids that boil into a vapor material.
	CapEvaporates
	// CapStatic marks tool-like solids (walls) that are skipped by the whole
	// movement/temperature pass and so act as fixed-temperature heat sinks.
	CapStatic
)

// Has reports whether all bits in f are set.
func (c Caps) Has(f Caps) bool { return c&f == f }

var capNames = map[string]Caps{
	"solid":      CapSolid,
	"liquid":     CapLiquid,
	"gas":        CapGas,
	"flammable":  CapFlammable,
	"evaporates": CapEvaporates,
	"static":     CapStatic,
}

// ParseCaps resolves capability names from a pack definition onto the
// bitset. Unknown names make the whole definition invalid.
func ParseCaps(names []string) (Caps, error) {
	var c Caps
	for _, n := range names {
		bit, ok := capNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("unknown capability %q", n)
		}
		c |= bit
	}
	return c, nil
}

// Def is one immutable material definition. Threshold and reaction fields
// are optional; a zero probability or nil threshold disables the rule.
type Def struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Color   RGB      `yaml:"color"`
	CapList []string `yaml:"caps"`

	// Caps is the parsed form of CapList, filled in by the registry.
	Caps Caps `yaml:"-"`

	// Temperature is the default cell temperature when the material is
	// painted or produced by a transition.
	Temperature float32 `yaml:"temperature"`

	// Density is an informal priority weight: a mover may displace an
	// occupant of strictly lower density. It is not a physics quantity.
	Density float32 `yaml:"density"`

	// Threshold transitions, evaluated during the movement pass.
	BoilsAt        *float32 `yaml:"boils_at,omitempty"`
	BoilsInto      string   `yaml:"boils_into,omitempty"`
	SolidifiesAt   *float32 `yaml:"solidifies_at,omitempty"`
	SolidifiesInto string   `yaml:"solidifies_into,omitempty"`
	IgnitesAt      *float32 `yaml:"ignites_at,omitempty"`

	// Neighbor-triggered reactions, evaluated during the reaction pass.
	Corrodes       float32 `yaml:"corrodes,omitempty"`
	Corrodible     bool    `yaml:"corrodible,omitempty"`
	CorrodesInto   string  `yaml:"corrodes_into,omitempty"`
	CatchesFire    float32 `yaml:"catches_fire,omitempty"`
	GrowsNearWater float32 `yaml:"grows_near_water,omitempty"`
	GrowsInto      string  `yaml:"grows_into,omitempty"`

	// Lifespan ages the cell once per tick through the per-cell flags byte;
	// after Lifespan ticks the cell decays into DecaysInto. Zero disables.
	Lifespan   int    `yaml:"lifespan,omitempty"`
	DecaysInto string `yaml:"decays_into,omitempty"`
}

// Behavior is the per-index dispatch record the tick engine reads. Link
// targets are resolved to indices at registry build time; the Has* fields
// guard the threshold rules because zero is a meaningful temperature.
type Behavior struct {
	Caps    Caps
	Density float32
	Temp    float32

	BoilsAt        float32
	BoilsInto      Index
	HasBoil        bool
	SolidifiesAt   float32
	SolidifiesInto Index
	HasSolidify    bool
	IgnitesAt      float32
	HasIgnite      bool

	Corrodes       float32
	Corrodible     bool
	CorrodesInto   Index
	CatchesFire    float32
	GrowsNearWater float32
	GrowsInto      Index

	Lifespan   uint8
	DecaysInto Index
}

// Movable reports whether the movement pass should consider this material.
func (b Behavior) Movable() bool {
	return !b.Caps.Has(CapSolid) && !b.Caps.Has(CapStatic)
}
