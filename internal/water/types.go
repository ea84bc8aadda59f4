package water

import (
	"fmt"
	"math"
)

// Ion identifies one of the dissolved ion channels tracked by a Profile.
type Ion string

// Ion channels. Carbonate is only populated by salts such as chalk when
// carbonate dissolution is disabled; most profiles carry it as zero.
const (
	IonCalcium     Ion = "calcium"
	IonMagnesium   Ion = "magnesium"
	IonSodium      Ion = "sodium"
	IonSulfate     Ion = "sulfate"
	IonChloride    Ion = "chloride"
	IonBicarbonate Ion = "bicarbonate"
	IonCarbonate   Ion = "carbonate"
)

// Ions lists every channel in a stable order, used when iterating
// deterministically over profile fields.
var Ions = []Ion{
	IonCalcium,
	IonMagnesium,
	IonSodium,
	IonSulfate,
	IonChloride,
	IonBicarbonate,
	IonCarbonate,
}

// Profile is a water ion profile in mg/L. All fields are expected to be
// non-negative in valid inputs; validation happens at the request boundary,
// not inside the calculation core.
type Profile struct {
	Calcium     float64 `json:"calcium" yaml:"calcium"`
	Magnesium   float64 `json:"magnesium" yaml:"magnesium"`
	Sodium      float64 `json:"sodium" yaml:"sodium"`
	Sulfate     float64 `json:"sulfate" yaml:"sulfate"`
	Chloride    float64 `json:"chloride" yaml:"chloride"`
	Bicarbonate float64 `json:"bicarbonate" yaml:"bicarbonate"`
	Carbonate   float64 `json:"carbonate,omitempty" yaml:"carbonate,omitempty"`
}

// Get returns the concentration of one ion channel.
func (p Profile) Get(ion Ion) float64 {
	switch ion {
	case IonCalcium:
		return p.Calcium
	case IonMagnesium:
		return p.Magnesium
	case IonSodium:
		return p.Sodium
	case IonSulfate:
		return p.Sulfate
	case IonChloride:
		return p.Chloride
	case IonBicarbonate:
		return p.Bicarbonate
	case IonCarbonate:
		return p.Carbonate
	}
	return 0
}

// Add increases one ion channel by ppm. Unknown ions are ignored.
func (p *Profile) Add(ion Ion, ppm float64) {
	switch ion {
	case IonCalcium:
		p.Calcium += ppm
	case IonMagnesium:
		p.Magnesium += ppm
	case IonSodium:
		p.Sodium += ppm
	case IonSulfate:
		p.Sulfate += ppm
	case IonChloride:
		p.Chloride += ppm
	case IonBicarbonate:
		p.Bicarbonate += ppm
	case IonCarbonate:
		p.Carbonate += ppm
	}
}

// Volumes describes the brewing water split in liters.
type Volumes struct {
	// Total is the full batch water volume.
	Total float64 `json:"total" yaml:"total"`

	// Mash is the strike water volume.
	Mash float64 `json:"mash" yaml:"mash"`

	// Sparge is the sparge water volume. Zero is a legitimate value
	// (no-sparge and brew-in-a-bag batches).
	Sparge float64 `json:"sparge" yaml:"sparge"`
}

// StagesConsistent reports whether mash + sparge matches the total volume
// within 0.1 L. Only meaningful when both stage volumes are set.
func (v Volumes) StagesConsistent() bool {
	diff := v.Mash + v.Sparge - v.Total
	if diff < 0 {
		diff = -diff
	}
	return diff <= 0.1
}

// VolumeMode selects which volume a salt addition dissolves into when
// converting grams to ppm.
type VolumeMode string

const (
	// VolumeModeMashNormalized always uses the mash volume, regardless of
	// where the salt is physically added. This matches the convention most
	// brewing water sheets use and is the default.
	VolumeModeMashNormalized VolumeMode = "mash_normalized"

	// VolumeModeWholeBatch always uses the total batch volume.
	VolumeModeWholeBatch VolumeMode = "whole_batch"

	// VolumeModeStaged uses the volume of the stage the salt is added to:
	// mash water, sparge water, or (for boil additions) the full batch.
	VolumeModeStaged VolumeMode = "staged"
)

// Valid reports whether the mode is one of the known volume modes.
func (m VolumeMode) Valid() bool {
	switch m {
	case VolumeModeMashNormalized, VolumeModeWholeBatch, VolumeModeStaged:
		return true
	}
	return false
}

// Stage is where a salt addition physically goes. Only consulted when the
// volume mode is VolumeModeStaged.
type Stage string

const (
	StageMash   Stage = "mash"
	StageSparge Stage = "sparge"
	StageBoil   Stage = "boil"
)

// Additions maps a salt ID to grams. Keys that don't exist in the salt
// catalog are skipped with a diagnostic by the composer.
type Additions map[string]float64

// Rounded returns a copy rounded to one decimal with entries below 0.1 g
// dropped; amounts that small are measurement noise, not real additions.
func (a Additions) Rounded() Additions {
	out := make(Additions, len(a))
	for id, grams := range a {
		g := math.Round(grams*10) / 10
		if g >= 0.1 {
			out[id] = g
		}
	}
	return out
}

// Total returns the summed grams across all additions.
func (a Additions) Total() float64 {
	var sum float64
	for _, grams := range a {
		sum += grams
	}
	return sum
}

// GrainType categorizes a malt for pH and buffering purposes.
type GrainType string

const (
	GrainBase       GrainType = "base"
	GrainCrystal    GrainType = "crystal"
	GrainRoasted    GrainType = "roasted"
	GrainAcidulated GrainType = "acidulated"
	GrainWheat      GrainType = "wheat"
	GrainOther      GrainType = "other"
)

// GrainBillItem is one malt in the grain bill.
type GrainBillItem struct {
	// Name is the malt name, matched against the grain database when acid
	// dosing needs a buffer capacity.
	Name string `json:"name" yaml:"name"`

	// WeightKG is the malt weight in kilograms.
	WeightKG float64 `json:"weight_kg" yaml:"weight_kg"`

	// Color is the malt color in SRM.
	Color float64 `json:"color" yaml:"color"`

	// Type is the malt category used by the pH models.
	Type GrainType `json:"type" yaml:"type"`
}

// GrainBill is the full list of malts in a recipe.
type GrainBill []GrainBillItem

// TotalWeight returns the summed grain weight in kilograms.
func (b GrainBill) TotalWeight() float64 {
	var sum float64
	for _, item := range b {
		sum += item.WeightKG
	}
	return sum
}

// WeightedColor returns the mass-weighted average color in SRM, or zero for
// an empty or weightless bill.
func (b GrainBill) WeightedColor() float64 {
	total := b.TotalWeight()
	if total <= 0 {
		return 0
	}
	var sum float64
	for _, item := range b {
		sum += item.Color * item.WeightKG
	}
	return sum / total
}

// MashThickness returns the mash water-to-grist ratio in L/kg, or zero when
// the bill has no weight.
func (b GrainBill) MashThickness(v Volumes) float64 {
	total := b.TotalWeight()
	if total <= 0 {
		return 0
	}
	return v.Mash / total
}

// ebcPerSRM is the linear scale between the two beer color systems.
const ebcPerSRM = 1.97

// EBCToSRM converts a color from EBC to SRM.
func EBCToSRM(ebc float64) float64 { return ebc / ebcPerSRM }

// SRMToEBC converts a color from SRM to EBC.
func SRMToEBC(srm float64) float64 { return srm * ebcPerSRM }

// Diagnostic is a non-fatal warning produced during a calculation. The core
// never logs; it returns diagnostics inside result values instead.
type Diagnostic struct {
	// Code is a stable machine-readable identifier.
	Code string `json:"code"`

	// Message is the human-readable description.
	Message string `json:"message"`
}

// Diagnostic codes used across the calculation core.
const (
	DiagUnknownSalt      = "unknown_salt"
	DiagUnknownAcid      = "unknown_acid"
	DiagUnknownGrain     = "unknown_grain"
	DiagEmptyGrainBill   = "empty_grain_bill"
	DiagInfeasibleTarget = "infeasible_target"
	DiagNotConverged     = "not_converged"
	DiagSuspectReport    = "suspect_report"
)

// Diagf builds a Diagnostic with a formatted message.
func Diagf(code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (d Diagnostic) String() string {
	return d.Code + ": " + d.Message
}
