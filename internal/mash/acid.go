package mash

import (
	"github.com/hopsmith/brewwater/internal/catalog"
	"github.com/hopsmith/brewwater/internal/water"
)

// doseSafetyFactor pads the stoichiometric dose; the linear buffer model
// reads low near typical mash pH targets.
const doseSafetyFactor = 1.1

// Dose is an acid addition recommendation.
type Dose struct {
	AcidID string `json:"acid_id"`

	// Amount is milliliters for liquid acids and grams for solid ones.
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`

	// MEq is the total acid milliequivalents behind the amount.
	MEq float64 `json:"meq"`

	// ConcentrationPercent is the tabulated concentration actually used
	// after snapping the request to the nearest table entry.
	ConcentrationPercent float64 `json:"concentration_percent"`

	Diagnostics []water.Diagnostic `json:"diagnostics,omitempty"`
}

// AcidDose sizes an acid addition to bring the mash from currentPH down to
// targetPH. A mash already at or below target gets a zero dose, and an acid
// missing from the catalog gets a zero dose with a diagnostic rather than an
// error. The concentration percent snaps to the nearest tabulated strength;
// zero means unset and picks the acid's first (strongest) table entry.
func AcidDose(currentPH, targetPH float64, bill water.GrainBill, acidID string, concentrationPercent float64) Dose {
	acid, ok := catalog.AcidByID(acidID)
	if !ok {
		return Dose{AcidID: acidID, Diagnostics: []water.Diagnostic{
			water.Diagf(water.DiagUnknownAcid, "acid %q is not in the catalog; no dose computed", acidID),
		}}
	}

	conc := acid.Concentrations[0]
	if concentrationPercent > 0 {
		conc = acid.StrengthFor(concentrationPercent)
	}
	unit := "ml"
	if acid.Solid {
		unit = "g"
	}
	dose := Dose{AcidID: acid.ID, Unit: unit, ConcentrationPercent: conc.Percent}

	if currentPH <= targetPH {
		return dose
	}

	grains, diags := resolveBill(bill)
	dose.Diagnostics = diags
	buffer := totalBuffer(grains)
	if buffer <= 0 {
		dose.Diagnostics = append(dose.Diagnostics, water.Diagf(water.DiagEmptyGrainBill,
			"grain bill is empty, cannot size an acid dose"))
		return dose
	}

	dose.MEq = (currentPH - targetPH) * buffer * doseSafetyFactor
	dose.Amount = dose.MEq / conc.Strength
	return dose
}
