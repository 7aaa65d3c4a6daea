package material

func f32(v float32) *float32 { return &v }

// DefaultPack is the built-in material set used when no pack file is given.
// It covers every rule the engine implements: granular fall, liquid flow,
// gas rise, displacement by density, boiling, solidifying, ignition,
// corrosion, growth and lifespan decay.
func DefaultPack() Pack {
	return Pack{
		Materials: []Def{
			{
				ID: "wall", Name: "Wall",
				Color:       RGB{R: 90, G: 90, B: 90},
				CapList:     []string{"solid", "static"},
				Temperature: 22,
			},
			{
				ID: "stone", Name: "Stone",
				Color:       RGB{R: 130, G: 130, B: 130},
				CapList:     []string{"solid"},
				Temperature: 22,
				Density:     2.6,
			},
			{
				ID: "sand", Name: "Sand",
				Color:       RGB{R: 194, G: 178, B: 128},
				Temperature: 22,
				Density:     3,
			},
			{
				ID: "water", Name: "Water",
				Color:       RGB{R: 28, G: 107, B: 196},
				CapList:     []string{"liquid", "evaporates"},
				Temperature: 22,
				Density:     1,
				BoilsAt:     f32(100),
				BoilsInto:   "steam",
			},
			{
				ID: "oil", Name: "Oil",
				Color:       RGB{R: 60, G: 50, B: 40},
				CapList:     []string{"liquid", "flammable"},
				Temperature: 22,
				Density:     0.8,
				IgnitesAt:   f32(260),
				CatchesFire: 0.25,
			},
			{
				ID: "acid", Name: "Acid",
				Color:       RGB{R: 120, G: 220, B: 60},
				CapList:     []string{"liquid"},
				Temperature: 22,
				Density:     1.2,
				Corrodes:    0.04,
			},
			{
				ID: "metal", Name: "Metal",
				Color:        RGB{R: 176, G: 180, B: 188},
				CapList:      []string{"solid"},
				Temperature:  22,
				Density:      7,
				Corrodible:   true,
				CorrodesInto: "rust",
			},
			{
				ID: "rust", Name: "Rust",
				Color:       RGB{R: 148, G: 82, B: 48},
				Temperature: 22,
				Density:     2.5,
			},
			{
				ID: "fire", Name: "Fire",
				Color:       RGB{R: 255, G: 140, B: 24},
				CapList:     []string{"solid"},
				Temperature: 460,
				Lifespan:    30,
				DecaysInto:  "smoke",
			},
			{
				ID: "smoke", Name: "Smoke",
				Color:       RGB{R: 105, G: 105, B: 105},
				CapList:     []string{"gas"},
				Temperature: 80,
				Density:     0.05,
				Lifespan:    90,
				DecaysInto:  "void",
			},
			{
				ID: "steam", Name: "Steam",
				Color:          RGB{R: 200, G: 200, B: 210},
				CapList:        []string{"gas"},
				Temperature:    110,
				Density:        0.1,
				SolidifiesAt:   f32(80),
				SolidifiesInto: "water",
				Lifespan:       240,
				DecaysInto:     "void",
			},
			{
				ID: "lava", Name: "Lava",
				Color:          RGB{R: 255, G: 90, B: 40},
				CapList:        []string{"liquid"},
				Temperature:    1100,
				Density:        2,
				SolidifiesAt:   f32(700),
				SolidifiesInto: "stone",
			},
			{
				ID: "seed", Name: "Seed",
				Color:          RGB{R: 120, G: 96, B: 56},
				Temperature:    22,
				Density:        1.5,
				GrowsNearWater: 0.02,
				GrowsInto:      "plant",
			},
			{
				ID: "plant", Name: "Plant",
				Color:       RGB{R: 70, G: 160, B: 80},
				CapList:     []string{"solid", "flammable"},
				Temperature: 22,
				Density:     0.9,
				IgnitesAt:   f32(280),
				CatchesFire: 0.2,
			},
		},
		Variants: []VariantDef{
			{Base: "sand", Count: 3, TintPercent: 8},
		},
	}
}
