package mash

import (
	"math"

	"github.com/hopsmith/brewwater/internal/water"
)

// Carbonate system and water dissociation constants at 25 °C with linear
// temperature slopes. The pKa values are thermodynamic; the solver corrects
// them to a concentration basis with the Davies equation.
const (
	pKa1At25 = 6.35
	pKa2At25 = 10.33
	pKwAt25  = 14.0

	pKa1TempSlope = -0.0055
	pKa2TempSlope = -0.009
	pKwTempSlope  = -0.03

	daviesAAt25      = 0.509
	daviesATempSlope = 0.0008
)

// Bisection bracket and stopping rules. The bracket top sits above the
// report clamp on purpose: alkaline worts can solve above 6.5 and the clamp
// is applied afterwards.
const (
	bisectLow      = 4.0
	bisectHigh     = 7.0
	maxIterations  = 100
	residualTolMEq = 1e-6
	intervalTol    = 1e-9
)

// Molar masses in g/mol, for converting ppm to mmol/L.
const (
	mmCalcium     = 40.08
	mmMagnesium   = 24.31
	mmSodium      = 22.99
	mmSulfate     = 96.06
	mmChloride    = 35.45
	mmBicarbonate = 61.016
	mmCarbonate   = 60.008
)

// chemistry holds the temperature- and activity-corrected dissociation
// constants for one solve.
type chemistry struct {
	pKa1, pKa2, pKw float64
}

func newChemistry(profile water.Profile, temperature float64) chemistry {
	dt := temperature - defaultTemperature
	ionic := ionicStrength(profile)
	a := daviesAAt25 + daviesATempSlope*dt
	logGamma1 := daviesLogGamma(a, 1, ionic)
	logGamma2 := daviesLogGamma(a, 2, ionic)

	// Concentration-basis constants: Ka1' = Ka1 / (gammaH * gammaHCO3),
	// Ka2' = Ka2 * gammaHCO3 / (gammaH * gammaCO3), Kw' = Kw / (gammaH * gammaOH).
	return chemistry{
		pKa1: pKa1At25 + pKa1TempSlope*dt + 2*logGamma1,
		pKa2: pKa2At25 + pKa2TempSlope*dt + logGamma2,
		pKw:  pKwAt25 + pKwTempSlope*dt + 2*logGamma1,
	}
}

// ionicStrength returns I in mol/L, 0.5 sum of c·z² over the profile.
func ionicStrength(p water.Profile) float64 {
	milli := p.Calcium/mmCalcium*4 +
		p.Magnesium/mmMagnesium*4 +
		p.Sodium/mmSodium +
		p.Sulfate/mmSulfate*4 +
		p.Chloride/mmChloride +
		p.Bicarbonate/mmBicarbonate +
		p.Carbonate/mmCarbonate*4
	return 0.5 * milli / 1000
}

// daviesLogGamma is the Davies activity model. It holds to I around
// 0.5 mol/L, far beyond any brewing water.
func daviesLogGamma(a float64, charge int, ionic float64) float64 {
	if ionic <= 0 {
		return 0
	}
	sqrtI := math.Sqrt(ionic)
	return -a * float64(charge*charge) * (sqrtI/(1+sqrtI) - 0.3*ionic)
}

// carbonateChargeFraction returns the average charge per dissolved carbonate
// unit at pH z: 0 for H2CO3, 1 for HCO3-, 2 for CO3 2-.
func (c chemistry) carbonateChargeFraction(z float64) float64 {
	hco3 := 1 / (1 + math.Pow(10, c.pKa1-z) + math.Pow(10, z-c.pKa2))
	co3 := hco3 * math.Pow(10, z-c.pKa2)
	return hco3 + 2*co3
}

// estimateAdvanced solves the mash proton balance by bisection. At the
// equilibrium pH, the base the water supplies (carbonate converting toward
// CO2 as the mash acidifies it, less the acidity calcium and magnesium
// release against malt phosphates, less free protons) exactly matches the
// base the malt buffers absorb above their distilled-water pH.
func estimateAdvanced(profile water.Profile, grains []grainWeight, vol water.Volumes, temperature float64) Estimate {
	chem := newChemistry(profile, temperature)

	ct := profile.Bicarbonate/mmBicarbonate + profile.Carbonate/mmCarbonate
	var initialCharge float64
	if ct > 0 {
		initialCharge = (profile.Bicarbonate/mmBicarbonate + 2*profile.Carbonate/mmCarbonate) / ct
	}
	// Kolbach: each mEq of calcium neutralizes 1/3.5 mEq of alkalinity,
	// magnesium 1/7.
	kolbach := (profile.Calcium*2/mmCalcium)/3.5 + (profile.Magnesium*2/mmMagnesium)/7

	residual := func(z float64) float64 {
		demand := ct * (initialCharge - chem.carbonateChargeFraction(z))
		freeH := (math.Pow(10, -z) - math.Pow(10, z-chem.pKw)) * 1000
		supply := demand - kolbach - freeH

		var malt float64
		for _, gw := range grains {
			malt += gw.grain.BufferCapacity * gw.kg * (z - gw.grain.DistilledPH)
		}
		return vol.Mash*supply - malt
	}

	lo, hi := bisectLow, bisectHigh
	if residual(lo) < 0 {
		return Estimate{PH: lo, Diagnostics: []water.Diagnostic{
			water.Diagf(water.DiagNotConverged, "charge balance has no root above pH %.1f", lo)}}
	}
	if residual(hi) > 0 {
		return Estimate{PH: hi, Diagnostics: []water.Diagnostic{
			water.Diagf(water.DiagNotConverged, "charge balance has no root below pH %.1f", hi)}}
	}

	var (
		mid        float64
		iterations int
		converged  bool
	)
	for i := 0; i < maxIterations; i++ {
		iterations = i + 1
		mid = (lo + hi) / 2
		r := residual(mid)
		if math.Abs(r) <= residualTolMEq || hi-lo <= intervalTol {
			converged = true
			break
		}
		if r > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}

	est := Estimate{PH: mid, Converged: converged, Iterations: iterations}
	if !converged {
		est.Diagnostics = append(est.Diagnostics, water.Diagf(water.DiagNotConverged,
			"bisection stopped after %d iterations without reaching tolerance", maxIterations))
	}
	return est
}
