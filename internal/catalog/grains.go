package catalog

import (
	"strings"

	"github.com/hopsmith/brewwater/internal/water"
)

// Grain is one malt's acid-base behavior: where it lands in distilled water
// and how hard it resists being moved.
type Grain struct {
	Name string          `json:"name"`
	Type water.GrainType `json:"type"`

	// Color is SRM.
	Color float64 `json:"color"`

	// DistilledPH is the pH of a distilled-water mash of only this malt.
	DistilledPH float64 `json:"distilled_ph"`

	// BufferCapacity is mEq per kg per pH unit (magnitude).
	BufferCapacity float64 `json:"buffer_capacity"`
}

var grainOrder = []string{
	"pilsner malt",
	"pale malt 2-row",
	"maris otter",
	"vienna malt",
	"munich malt",
	"wheat malt",
	"flaked wheat",
	"crystal 20",
	"crystal 40",
	"crystal 60",
	"crystal 80",
	"crystal 120",
	"chocolate malt",
	"roasted barley",
	"black patent",
	"carafa special ii",
	"acidulated malt",
	"flaked oats",
	"flaked corn",
	"flaked barley",
}

// grains tabulates measured values. Malts missing from the table are
// estimated from type and color with EstimateGrain.
var grains = map[string]Grain{
	"pilsner malt":      {Name: "Pilsner Malt", Type: water.GrainBase, Color: 1.6, DistilledPH: 5.80, BufferCapacity: 37.8},
	"pale malt 2-row":   {Name: "Pale Malt 2-Row", Type: water.GrainBase, Color: 1.8, DistilledPH: 5.79, BufferCapacity: 39.0},
	"maris otter":       {Name: "Maris Otter", Type: water.GrainBase, Color: 3.0, DistilledPH: 5.78, BufferCapacity: 40.4},
	"vienna malt":       {Name: "Vienna Malt", Type: water.GrainBase, Color: 3.5, DistilledPH: 5.77, BufferCapacity: 37.5},
	"munich malt":       {Name: "Munich Malt", Type: water.GrainBase, Color: 9.0, DistilledPH: 5.68, BufferCapacity: 39.6},
	"wheat malt":        {Name: "Wheat Malt", Type: water.GrainWheat, Color: 1.8, DistilledPH: 5.97, BufferCapacity: 35.8},
	"flaked wheat":      {Name: "Flaked Wheat", Type: water.GrainWheat, Color: 1.6, DistilledPH: 5.96, BufferCapacity: 34.0},
	"crystal 20":        {Name: "Crystal 20", Type: water.GrainCrystal, Color: 20, DistilledPH: 5.05, BufferCapacity: 42.8},
	"crystal 40":        {Name: "Crystal 40", Type: water.GrainCrystal, Color: 40, DistilledPH: 4.88, BufferCapacity: 44.0},
	"crystal 60":        {Name: "Crystal 60", Type: water.GrainCrystal, Color: 60, DistilledPH: 4.74, BufferCapacity: 45.2},
	"crystal 80":        {Name: "Crystal 80", Type: water.GrainCrystal, Color: 80, DistilledPH: 4.60, BufferCapacity: 46.1},
	"crystal 120":       {Name: "Crystal 120", Type: water.GrainCrystal, Color: 120, DistilledPH: 4.30, BufferCapacity: 48.0},
	"chocolate malt":    {Name: "Chocolate Malt", Type: water.GrainRoasted, Color: 350, DistilledPH: 4.48, BufferCapacity: 58.4},
	"roasted barley":    {Name: "Roasted Barley", Type: water.GrainRoasted, Color: 450, DistilledPH: 4.41, BufferCapacity: 59.8},
	"black patent":      {Name: "Black Patent", Type: water.GrainRoasted, Color: 525, DistilledPH: 4.38, BufferCapacity: 61.0},
	"carafa special ii": {Name: "Carafa Special II", Type: water.GrainRoasted, Color: 415, DistilledPH: 4.45, BufferCapacity: 59.0},
	"acidulated malt":   {Name: "Acidulated Malt", Type: water.GrainAcidulated, Color: 3.0, DistilledPH: 3.44, BufferCapacity: 35.0},
	"flaked oats":       {Name: "Flaked Oats", Type: water.GrainOther, Color: 1.4, DistilledPH: 5.75, BufferCapacity: 41.0},
	"flaked corn":       {Name: "Flaked Corn", Type: water.GrainOther, Color: 0.7, DistilledPH: 5.74, BufferCapacity: 38.5},
	"flaked barley":     {Name: "Flaked Barley", Type: water.GrainOther, Color: 2.2, DistilledPH: 5.73, BufferCapacity: 42.3},
}

// Grains returns the tabulated database in a stable order.
func Grains() []Grain {
	out := make([]Grain, 0, len(grainOrder))
	for _, name := range grainOrder {
		out = append(out, grains[name])
	}
	return out
}

// GrainByName looks a malt up by exact name, then by substring in either
// direction. Matching is case-insensitive.
func GrainByName(name string) (Grain, bool) {
	key := normalizeGrainName(name)
	if key == "" {
		return Grain{}, false
	}
	if g, ok := grains[key]; ok {
		return g, true
	}
	// Fuzzy pass: "weyermann pilsner malt" should find "pilsner malt" and
	// "crystal" alone should find the first crystal entry.
	for _, entry := range grainOrder {
		if strings.Contains(key, entry) || strings.Contains(entry, key) {
			return grains[entry], true
		}
	}
	return Grain{}, false
}

func normalizeGrainName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// EstimateGrain synthesizes a grain record from type and color using the
// same linear relations the pH models use. This is the last-resort lookup
// tier, so it accepts any input and never fails.
func EstimateGrain(t water.GrainType, color float64) Grain {
	if color < 0 {
		color = 0
	}
	g := Grain{Name: "estimated", Type: t, Color: color}
	g.DistilledPH = DistilledPH(t, color)
	g.BufferCapacity = BufferCapacity(t, color)
	return g
}

// ResolveGrain finds the grain record for a bill item: tabulated match by
// name when possible, synthetic estimate otherwise. The bool reports
// whether the name matched the database.
func ResolveGrain(item water.GrainBillItem) (Grain, bool) {
	if g, ok := GrainByName(item.Name); ok {
		return g, true
	}
	return EstimateGrain(item.Type, item.Color), false
}

// DistilledPH is the linear distilled-water mash pH model per malt
// category. Color is SRM.
func DistilledPH(t water.GrainType, color float64) float64 {
	var ph float64
	switch t {
	case water.GrainCrystal:
		ph = 5.22 - 0.008*color
	case water.GrainRoasted:
		ph = 4.65 - 0.0005*color
	case water.GrainAcidulated:
		ph = 3.45
	case water.GrainWheat:
		ph = 5.97 - 0.01*color
	case water.GrainBase:
		ph = 5.82 - 0.012*color
	default:
		ph = 5.75 - 0.005*color
	}
	if ph < 3.4 {
		ph = 3.4
	}
	return ph
}

// BufferCapacity is the linear buffer model per malt category in
// mEq/(kg·pH). Darker kilning adds buffering melanoidins.
func BufferCapacity(t water.GrainType, color float64) float64 {
	switch t {
	case water.GrainCrystal:
		return 42 + 0.05*color
	case water.GrainRoasted:
		return 55 + 0.01*color
	case water.GrainAcidulated:
		return 35
	case water.GrainWheat:
		return 36
	case water.GrainBase:
		return 38
	default:
		return 40
	}
}
