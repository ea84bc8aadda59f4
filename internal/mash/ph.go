// Package mash estimates mash pH from a water profile and a grain bill, and
// calculates acid doses to reach a target pH. Three models are available,
// trading simplicity for chemical fidelity; all of them report pH at the
// room-temperature measurement convention (25 °C sample).
package mash

import (
	"fmt"

	"github.com/hopsmith/brewwater/internal/catalog"
	"github.com/hopsmith/brewwater/internal/water"
)

// Model selects a pH estimation model.
type Model string

const (
	// ModelSimple shifts the grist's weighted distilled-water pH by residual
	// alkalinity. Fast and coarse.
	ModelSimple Model = "simple"

	// ModelKaiser balances water alkalinity against per-malt buffer
	// capacities, in the style of Kai Troester's spreadsheets.
	ModelKaiser Model = "kaiser"

	// ModelAdvanced solves charge balance with carbonate speciation and
	// activity corrections by bisection.
	ModelAdvanced Model = "advanced"
)

// Valid reports whether the model is one of the known estimators.
func (m Model) Valid() bool {
	switch m {
	case ModelSimple, ModelKaiser, ModelAdvanced:
		return true
	}
	return false
}

// Estimate is the result of a pH model run.
type Estimate struct {
	// PH is the estimated mash pH at 25 °C, always within the report clamp
	// range even for degenerate inputs.
	PH float64 `json:"ph"`

	// Model is the estimator that produced the value.
	Model Model `json:"model"`

	// Converged is false when an iterative model stopped without reaching
	// its tolerance. Closed-form models converge whenever a grain bill is
	// present; the empty-bill fallback estimate reports false.
	Converged bool `json:"converged"`

	// Iterations is the number of solver iterations, zero for closed-form
	// models.
	Iterations int `json:"iterations,omitempty"`

	Diagnostics []water.Diagnostic `json:"diagnostics,omitempty"`
}

// pH estimates are clamped to this range; real mashes live well inside it
// and values outside signal garbage inputs rather than chemistry.
const (
	phClampLow  = 4.0
	phClampHigh = 6.5
)

// defaultTemperature is the assumed sample temperature in °C when the
// request leaves it unset.
const defaultTemperature = 25.0

// baselinePH is the all-else-equal mash pH all models are anchored to.
const baselinePH = 5.7

// EstimatePH runs the selected model. Temperature is the pH sample
// temperature in °C; values <= 0 mean unset and default to 25.
func EstimatePH(model Model, profile water.Profile, bill water.GrainBill, vol water.Volumes, temperature float64) (Estimate, error) {
	if !model.Valid() {
		return Estimate{}, fmt.Errorf("unknown pH model %q", model)
	}
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	grains, diags := resolveBill(bill)
	if len(grains) == 0 || totalWeight(grains) <= 0 {
		// No grist to buffer the water: fall back to the baseline shifted by
		// residual alkalinity, clamped like every other estimate.
		diags = append(diags, water.Diagf(water.DiagEmptyGrainBill,
			"grain bill is empty, estimating from water alone"))
		return Estimate{
			Model:       model,
			PH:          clampPH(baselinePH + profile.ResidualAlkalinity()*simpleShiftPerRA),
			Diagnostics: diags,
		}, nil
	}

	var est Estimate
	switch model {
	case ModelSimple:
		est = estimateSimple(profile, grains, vol)
	case ModelKaiser:
		est = estimateKaiser(profile, grains, vol, temperature)
	case ModelAdvanced:
		est = estimateAdvanced(profile, grains, vol, temperature)
	}
	est.Model = model
	est.PH = clampPH(est.PH)
	est.Diagnostics = append(diags, est.Diagnostics...)
	return est, nil
}

func clampPH(ph float64) float64 {
	if ph < phClampLow {
		return phClampLow
	}
	if ph > phClampHigh {
		return phClampHigh
	}
	return ph
}

// grainWeight pairs a resolved grain record with its weight in the bill.
type grainWeight struct {
	grain catalog.Grain
	kg    float64
}

// resolveBill resolves every bill item against the grain database, falling
// back to the type and color estimate. Items with no name match and no type
// are treated as generic adjuncts with a diagnostic.
func resolveBill(bill water.GrainBill) ([]grainWeight, []water.Diagnostic) {
	var diags []water.Diagnostic
	out := make([]grainWeight, 0, len(bill))
	for _, item := range bill {
		if item.WeightKG <= 0 {
			continue
		}
		g, matched := catalog.ResolveGrain(item)
		if !matched && item.Type == "" {
			diags = append(diags, water.Diagf(water.DiagUnknownGrain,
				"grain %q not in database and has no type, treating as generic adjunct", item.Name))
		}
		out = append(out, grainWeight{grain: g, kg: item.WeightKG})
	}
	return out, diags
}

func totalWeight(grains []grainWeight) float64 {
	var sum float64
	for _, gw := range grains {
		sum += gw.kg
	}
	return sum
}

// totalBuffer returns the summed malt buffer capacity in mEq per pH unit.
func totalBuffer(grains []grainWeight) float64 {
	var sum float64
	for _, gw := range grains {
		sum += gw.grain.BufferCapacity * gw.kg
	}
	return sum
}
