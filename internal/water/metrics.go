package water

// Milliequivalent weights in mg per mEq (molar mass divided by ionic
// charge), used to convert ppm to charge.
const (
	meqCalcium     = 20.04 // Ca2+, 40.08 / 2
	meqMagnesium   = 12.15 // Mg2+, 24.31 / 2
	meqSodium      = 22.99 // Na+
	meqSulfate     = 48.03 // SO4 2-, 96.06 / 2
	meqChloride    = 35.45 // Cl-
	meqBicarbonate = 61.02 // HCO3-
	meqCarbonate   = 30.00 // CO3 2-, 60.01 / 2
)

// ResidualAlkalinity returns the Kolbach residual alkalinity in ppm as
// CaCO3: the water's alkalinity discounted by the acidity that calcium and
// magnesium release when they react with malt phosphates.
func (p Profile) ResidualAlkalinity() float64 {
	alkalinity := p.Bicarbonate*0.82 + p.Carbonate*1.67
	return alkalinity - (p.Calcium/1.4 + p.Magnesium/1.7)
}

// SulfateChlorideRatio returns the sulfate:chloride ratio and whether the
// ratio is defined. With zero chloride the ratio is undefined (reported as
// a tag, not a sentinel value or a division error).
func (p Profile) SulfateChlorideRatio() (float64, bool) {
	if p.Chloride == 0 {
		return 0, false
	}
	return p.Sulfate / p.Chloride, true
}

// TotalHardness returns the hardness in ppm as CaCO3.
func (p Profile) TotalHardness() float64 {
	return p.Calcium*2.5 + p.Magnesium*4.1
}

// EffectiveHardness returns the plain sum of the hardness ions in ppm.
func (p Profile) EffectiveHardness() float64 {
	return p.Calcium + p.Magnesium
}

// ChargeBalance summarizes the ionic charge of a profile. Real water is
// electrically neutral, so a large imbalance means the report itself is
// questionable, usually missing ions or measurement error.
type ChargeBalance struct {
	// CationMEq is the summed positive charge in mEq/L.
	CationMEq float64 `json:"cation_meq"`

	// AnionMEq is the summed negative charge in mEq/L.
	AnionMEq float64 `json:"anion_meq"`

	// ImbalancePercent is (cation − anion) / (cation + anion) × 100.
	ImbalancePercent float64 `json:"imbalance_percent"`
}

// suspectImbalancePercent is the magnitude above which a water report is
// flagged as suspect. Not an error: a warning only.
const suspectImbalancePercent = 5.0

// Suspect reports whether the imbalance is large enough to question the
// underlying water report.
func (b ChargeBalance) Suspect() bool {
	imbalance := b.ImbalancePercent
	if imbalance < 0 {
		imbalance = -imbalance
	}
	return imbalance > suspectImbalancePercent
}

// ChargeBalanceCheck converts each ion to milliequivalents and compares the
// summed cation and anion charge. An all-zero profile balances trivially.
func (p Profile) ChargeBalanceCheck() ChargeBalance {
	cations := p.Calcium/meqCalcium + p.Magnesium/meqMagnesium + p.Sodium/meqSodium
	anions := p.Sulfate/meqSulfate + p.Chloride/meqChloride +
		p.Bicarbonate/meqBicarbonate + p.Carbonate/meqCarbonate

	balance := ChargeBalance{CationMEq: cations, AnionMEq: anions}
	if cations+anions > 0 {
		balance.ImbalancePercent = (cations - anions) / (cations + anions) * 100
	}
	return balance
}
