package catalog

import "github.com/hopsmith/brewwater/internal/water"

// NamedProfile is a classic brewing water profile shipped as data, usable
// as an optimization target or a starting point.
type NamedProfile struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Profile water.Profile `json:"profile"`
}

var waterOrder = []string{
	"distilled",
	"pilsen",
	"dublin",
	"burton",
	"dortmund",
	"munich",
	"vienna",
	"london",
	"edinburgh",
}

var waters = map[string]NamedProfile{
	"distilled": {ID: "distilled", Name: "Distilled / RO", Profile: water.Profile{}},
	"pilsen": {ID: "pilsen", Name: "Pilsen", Profile: water.Profile{
		Calcium: 7, Magnesium: 2, Sodium: 2, Sulfate: 5, Chloride: 5, Bicarbonate: 15,
	}},
	"dublin": {ID: "dublin", Name: "Dublin", Profile: water.Profile{
		Calcium: 118, Magnesium: 4, Sodium: 12, Sulfate: 55, Chloride: 19, Bicarbonate: 160,
	}},
	"burton": {ID: "burton", Name: "Burton-on-Trent", Profile: water.Profile{
		Calcium: 275, Magnesium: 40, Sodium: 25, Sulfate: 610, Chloride: 35, Bicarbonate: 270,
	}},
	"dortmund": {ID: "dortmund", Name: "Dortmund", Profile: water.Profile{
		Calcium: 225, Magnesium: 40, Sodium: 60, Sulfate: 120, Chloride: 60, Bicarbonate: 180,
	}},
	"munich": {ID: "munich", Name: "Munich", Profile: water.Profile{
		Calcium: 75, Magnesium: 18, Sodium: 2, Sulfate: 10, Chloride: 2, Bicarbonate: 152,
	}},
	"vienna": {ID: "vienna", Name: "Vienna", Profile: water.Profile{
		Calcium: 200, Magnesium: 60, Sodium: 8, Sulfate: 125, Chloride: 12, Bicarbonate: 120,
	}},
	"london": {ID: "london", Name: "London", Profile: water.Profile{
		Calcium: 52, Magnesium: 32, Sodium: 86, Sulfate: 32, Chloride: 34, Bicarbonate: 104,
	}},
	"edinburgh": {ID: "edinburgh", Name: "Edinburgh", Profile: water.Profile{
		Calcium: 125, Magnesium: 25, Sodium: 55, Sulfate: 140, Chloride: 65, Bicarbonate: 225,
	}},
}

// WaterByID returns a named profile. The profile is a value copy; callers
// can mutate it freely.
func WaterByID(id string) (NamedProfile, bool) {
	w, ok := waters[id]
	return w, ok
}

// Waters returns every named profile in a stable order.
func Waters() []NamedProfile {
	out := make([]NamedProfile, 0, len(waterOrder))
	for _, id := range waterOrder {
		out = append(out, waters[id])
	}
	return out
}

// Style is a beer style leaning expressed as a sulfate:chloride goal.
type Style string

const (
	StyleHoppy    Style = "hoppy"
	StyleBalanced Style = "balanced"
	StyleMalty    Style = "malty"
)

// styleRatios are the sulfate:chloride ratios the optimizers steer toward.
var styleRatios = map[Style]float64{
	StyleHoppy:    2.0,
	StyleBalanced: 1.0,
	StyleMalty:    0.5,
}

// RatioForStyle returns the sulfate:chloride target for a style. Unknown
// styles fall back to balanced.
func RatioForStyle(s Style) float64 {
	if r, ok := styleRatios[s]; ok {
		return r
	}
	return styleRatios[StyleBalanced]
}

// KnownStyle reports whether s is one of the tabulated style leanings.
func KnownStyle(s Style) bool {
	_, ok := styleRatios[s]
	return ok
}
