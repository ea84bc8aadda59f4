package mash

import "github.com/hopsmith/brewwater/internal/water"

// Kolbach residual alkalinity in ppm CaCO3 converts to mEq/L at 50 mg CaCO3
// per mEq.
const caco3PerMEq = 50.0

// Measured mash pH drops slightly with sample temperature.
const kaiserTempSlope = 0.003

// estimateKaiser balances the water's effective alkalinity against the
// malts' buffer capacities: each malt pulls toward its distilled-water pH
// with a strength proportional to buffer × weight, and the water's residual
// alkalinity (in mEq, over the mash volume) pushes the equilibrium up or
// down from there.
func estimateKaiser(profile water.Profile, grains []grainWeight, vol water.Volumes, temperature float64) Estimate {
	buffer := totalBuffer(grains)
	if buffer <= 0 {
		return Estimate{Converged: true}
	}

	var weighted float64
	for _, gw := range grains {
		weighted += gw.grain.DistilledPH * gw.grain.BufferCapacity * gw.kg
	}
	weighted /= buffer

	alkalinityMEq := profile.ResidualAlkalinity() / caco3PerMEq * vol.Mash

	ph := weighted + alkalinityMEq/buffer
	ph -= kaiserTempSlope * (temperature - defaultTemperature)

	return Estimate{PH: ph, Converged: true}
}
