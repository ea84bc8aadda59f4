package mash

import "github.com/hopsmith/brewwater/internal/water"

// Residual alkalinity shifts mash pH by roughly 0.003 pH per ppm CaCO3 at a
// reference mash thickness of 3 L/kg. Thinner mashes dilute the malt's
// buffering, so the water moves the pH further.
const (
	simpleShiftPerRA   = 0.003
	referenceThickness = 3.0
)

// estimateSimple is the coarse model: the grist's mass-weighted
// distilled-water pH, shifted by residual alkalinity scaled with mash
// thickness. It ignores temperature and carbonate speciation entirely.
func estimateSimple(profile water.Profile, grains []grainWeight, vol water.Volumes) Estimate {
	total := totalWeight(grains)

	var weighted float64
	for _, gw := range grains {
		weighted += gw.grain.DistilledPH * gw.kg
	}
	weighted /= total

	shift := profile.ResidualAlkalinity() * simpleShiftPerRA
	if total > 0 && vol.Mash > 0 {
		shift *= (vol.Mash / total) / referenceThickness
	}

	return Estimate{PH: weighted + shift, Converged: true}
}
