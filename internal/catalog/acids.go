package catalog

import "math"

// AcidConcentration is one tabulated commercial strength of an acid.
type AcidConcentration struct {
	// Percent is the weight/weight concentration, e.g. 88 for 88 % lactic.
	Percent float64 `json:"percent"`

	// Strength is the milliequivalents of acid delivered per milliliter
	// (per gram for solid acids) at mash pH.
	Strength float64 `json:"strength"`
}

// Acid is one acid the dosing calculator understands.
type Acid struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	MolarMass float64 `json:"molar_mass"`

	// Density is g/mL at the strongest tabulated concentration. Informational
	// only; the Strength table already folds density in.
	Density float64 `json:"density"`

	// PKa lists the dissociation constants, strongest first.
	PKa []float64 `json:"pka"`

	// Solid marks acids dosed by weight (grams) instead of volume (mL).
	Solid bool `json:"solid,omitempty"`

	// Concentrations are the tabulated commercial strengths. Requests for
	// an untabulated concentration snap to the nearest entry.
	Concentrations []AcidConcentration `json:"concentrations"`
}

var acidOrder = []string{"lactic", "phosphoric", "hydrochloric", "sulfuric", "citric"}

// acids tabulates strength as density × (percent/100) × 1000 / equivalent
// mass. Only protons released at mash pH count, so phosphoric uses its first
// proton and citric all three.
var acids = map[string]Acid{
	"lactic": {
		ID: "lactic", Name: "Lactic Acid", MolarMass: 90.08, Density: 1.209,
		PKa: []float64{3.86},
		Concentrations: []AcidConcentration{
			{Percent: 88, Strength: 11.81},
			{Percent: 80, Strength: 10.57},
		},
	},
	"phosphoric": {
		ID: "phosphoric", Name: "Phosphoric Acid", MolarMass: 98.00, Density: 1.685,
		PKa: []float64{2.12, 7.20, 12.35},
		Concentrations: []AcidConcentration{
			{Percent: 85, Strength: 14.62},
			{Percent: 75, Strength: 12.08},
			{Percent: 10, Strength: 1.07},
		},
	},
	"hydrochloric": {
		ID: "hydrochloric", Name: "Hydrochloric Acid", MolarMass: 36.46, Density: 1.19,
		PKa: []float64{-6.3},
		Concentrations: []AcidConcentration{
			{Percent: 37, Strength: 12.08},
			{Percent: 31, Strength: 9.86},
		},
	},
	"sulfuric": {
		ID: "sulfuric", Name: "Sulfuric Acid", MolarMass: 98.08, Density: 1.84,
		PKa: []float64{-3.0, 1.99},
		Concentrations: []AcidConcentration{
			{Percent: 98, Strength: 36.77},
			{Percent: 10, Strength: 2.18},
		},
	},
	"citric": {
		ID: "citric", Name: "Citric Acid", MolarMass: 192.12, Density: 1.665,
		PKa:   []float64{3.13, 4.76, 6.40},
		Solid: true,
		Concentrations: []AcidConcentration{
			{Percent: 100, Strength: 15.61},
		},
	},
}

// AcidByID returns the acid definition for an ID.
func AcidByID(id string) (Acid, bool) {
	a, ok := acids[id]
	return a, ok
}

// Acids returns the full catalog in a stable order.
func Acids() []Acid {
	out := make([]Acid, 0, len(acidOrder))
	for _, id := range acidOrder {
		out = append(out, acids[id])
	}
	return out
}

// StrengthFor returns the tabulated concentration nearest to the requested
// percent. An exact hit returns that entry; anything else snaps to the
// closest one rather than erroring.
func (a Acid) StrengthFor(percent float64) AcidConcentration {
	best := a.Concentrations[0]
	bestDiff := math.Abs(best.Percent - percent)
	for _, c := range a.Concentrations[1:] {
		if diff := math.Abs(c.Percent - percent); diff < bestDiff {
			best, bestDiff = c, diff
		}
	}
	return best
}
