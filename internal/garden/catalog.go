package garden

import "slices"

// builtins are the plants every installation starts with. Their ids are
// fixed slugs so watering history keeps pointing at them across devices.
var builtins = []Plant{
	{
		ID:       "cayenne-pepper",
		Name:     "Cayenne Pepper",
		Emoji:    "🌶️",
		BaseDays: 10,
		Seasonal: map[Season]float64{Winter: 1.0, Spring: 1.0, Summer: 1.0, Fall: 1.0},
		CareTips: []string{
			"Keep soil consistently moist but not waterlogged",
			"Water when top inch of soil feels dry",
			"Requires full sun (6-8 hours daily)",
			"Thrives in warm temperatures (21-29°C)",
			"Use well-draining soil with drainage holes",
		},
		Color: "#FF6B6B",
	},
	{
		ID:       "cayenne-pepper-offsprings",
		Name:     "Cayenne Pepper Offsprings",
		Emoji:    "🌱",
		BaseDays: 10,
		Seasonal: map[Season]float64{Winter: 1.0, Spring: 1.0, Summer: 1.0, Fall: 1.0},
		CareTips: []string{
			"Keep soil consistently moist but not waterlogged",
			"Monitor soil moisture more closely as seedlings are sensitive",
			"Ensure ample sunlight, gradually increasing exposure",
			"Keep in warm conditions (avoid below 16°C)",
			"Transplant to larger pots as they grow",
		},
		Color: "#4ECDC4",
	},
	{
		ID:       "cyclamen",
		Name:     "Cyclamen",
		Emoji:    "🌸",
		BaseDays: 10,
		// Summer is dormancy.
		Seasonal: map[Season]float64{Winter: 1.0, Spring: 1.0, Summer: 0.3, Fall: 1.0},
		CareTips: []string{
			"Water when top inch of soil feels dry",
			"During active growth (fall-spring), keep soil moist",
			"Reduce watering during summer dormancy",
			"Water from bottom to prevent crown rot",
			"Prefers bright, indirect light",
			"Cool temperatures (15-21°C) are ideal",
		},
		Color: "#FFB6C1",
	},
	{
		ID:       "kalanchoe",
		Name:     "Kalanchoe",
		Emoji:    "🌺",
		BaseDays: 10,
		Seasonal: map[Season]float64{Winter: 1.5, Spring: 1.0, Summer: 1.0, Fall: 1.0},
		CareTips: []string{
			"Allow top inch of soil to dry between waterings",
			"Water thoroughly but infrequently",
			"Reduce watering in winter (every 2-3 weeks)",
			"Prefers bright, indirect light with some direct sun",
			"Tolerates dry air well",
			"Use well-draining cactus or succulent mix",
		},
		Color: "#FFA07A",
	},
	{
		ID:       "cactus",
		Name:     "Cactus",
		Emoji:    "🌵",
		BaseDays: 21,
		Seasonal: map[Season]float64{Winter: 1.5, Spring: 1.0, Summer: 0.8, Fall: 1.0},
		CareTips: []string{
			"Water when soil is completely dry",
			"Water thoroughly but infrequently",
			"Reduce to once a month or less in winter",
			"Requires plenty of direct sunlight (6+ hours daily)",
			"Prefers low humidity",
			"Use cactus-specific potting mix",
		},
		Color: "#90EE90",
	},
}

// Catalog returns a fresh copy of the built-in plants. Callers may modify
// the result without affecting later calls.
func Catalog() []Plant {
	out := make([]Plant, len(builtins))
	for i, p := range builtins {
		out[i] = clonePlant(p)
		out[i].Origin = OriginBuiltin
	}
	return out
}

// BuiltinByID looks up a built-in plant by slug.
func BuiltinByID(id string) (Plant, bool) {
	for _, p := range builtins {
		if p.ID == id {
			c := clonePlant(p)
			c.Origin = OriginBuiltin
			return c, true
		}
	}
	return Plant{}, false
}

func IsBuiltinID(id string) bool {
	_, ok := BuiltinByID(id)
	return ok
}

// Visible filters out plants whose id is in hidden, preserving order.
func Visible(plants []Plant, hidden []string) []Plant {
	out := make([]Plant, 0, len(plants))
	for _, p := range plants {
		if slices.Contains(hidden, p.ID) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func clonePlant(p Plant) Plant {
	c := p
	c.CareTips = slices.Clone(p.CareTips)
	if p.Seasonal != nil {
		c.Seasonal = make(map[Season]float64, len(p.Seasonal))
		for k, v := range p.Seasonal {
			c.Seasonal[k] = v
		}
	}
	return c
}
