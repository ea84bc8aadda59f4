// Package catalog holds the static brewing chemistry tables: the salt
// catalog, the acid catalog, the grain database, and the classic water
// profiles. Everything is defined once at init and never mutated, so
// unsynchronized concurrent reads are safe.
package catalog

import "github.com/hopsmith/brewwater/internal/water"

// Salt is one brewing salt and its ion yields.
type Salt struct {
	// ID is the stable identifier used in additions maps and requests.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Formula is the chemical formula, hydrate included.
	Formula string `json:"formula"`

	// MolarMass is in g/mol.
	MolarMass float64 `json:"molar_mass"`

	// Yields maps each ion to the ppm added by dissolving one gram of the
	// salt in one liter of water.
	Yields map[water.Ion]float64 `json:"yields"`

	// DissolvedHCO3Yield is the bicarbonate ppm per gram per liter produced
	// when a hydroxide salt absorbs CO2 in solution:
	// Ca(OH)2 + 2 CO2 -> Ca(HCO3)2. Zero for everything except hydroxide
	// sources, and only applied under the carbonate-dissolution assumption.
	DissolvedHCO3Yield float64 `json:"dissolved_hco3_yield,omitempty"`
}

// saltOrder keeps listings deterministic.
var saltOrder = []string{
	"gypsum",
	"calcium_chloride",
	"epsom_salt",
	"magnesium_chloride",
	"canning_salt",
	"baking_soda",
	"chalk",
	"pickling_lime",
}

// salts is the full catalog. Yields are the usual brewing-table values:
// ion molar mass / salt molar mass × 1000.
var salts = map[string]Salt{
	"gypsum": {
		ID: "gypsum", Name: "Gypsum", Formula: "CaSO4·2H2O", MolarMass: 172.17,
		Yields: map[water.Ion]float64{
			water.IonCalcium: 232.5,
			water.IonSulfate: 557.7,
		},
	},
	"calcium_chloride": {
		ID: "calcium_chloride", Name: "Calcium Chloride", Formula: "CaCl2·2H2O", MolarMass: 147.01,
		Yields: map[water.Ion]float64{
			water.IonCalcium:  272.6,
			water.IonChloride: 482.3,
		},
	},
	"epsom_salt": {
		ID: "epsom_salt", Name: "Epsom Salt", Formula: "MgSO4·7H2O", MolarMass: 246.47,
		Yields: map[water.Ion]float64{
			water.IonMagnesium: 98.6,
			water.IonSulfate:   389.6,
		},
	},
	"magnesium_chloride": {
		ID: "magnesium_chloride", Name: "Magnesium Chloride", Formula: "MgCl2·6H2O", MolarMass: 203.30,
		Yields: map[water.Ion]float64{
			water.IonMagnesium: 119.5,
			water.IonChloride:  348.7,
		},
	},
	"canning_salt": {
		ID: "canning_salt", Name: "Canning Salt", Formula: "NaCl", MolarMass: 58.44,
		Yields: map[water.Ion]float64{
			water.IonSodium:   393.4,
			water.IonChloride: 606.6,
		},
	},
	"baking_soda": {
		ID: "baking_soda", Name: "Baking Soda", Formula: "NaHCO3", MolarMass: 84.01,
		Yields: map[water.Ion]float64{
			water.IonSodium:      273.7,
			water.IonBicarbonate: 726.3,
		},
	},
	"chalk": {
		ID: "chalk", Name: "Chalk", Formula: "CaCO3", MolarMass: 100.09,
		Yields: map[water.Ion]float64{
			water.IonCalcium:   400.4,
			water.IonCarbonate: 599.6,
		},
	},
	"pickling_lime": {
		ID: "pickling_lime", Name: "Pickling Lime", Formula: "Ca(OH)2", MolarMass: 74.09,
		Yields: map[water.Ion]float64{
			water.IonCalcium: 541.0,
		},
		// 2 × 61.016 (HCO3) / 74.09 (Ca(OH)2) × 1000
		DissolvedHCO3Yield: 1647.1,
	},
}

// SaltByID returns the salt definition for an ID.
func SaltByID(id string) (Salt, bool) {
	s, ok := salts[id]
	return s, ok
}

// Salts returns the full catalog in a stable order.
func Salts() []Salt {
	out := make([]Salt, 0, len(saltOrder))
	for _, id := range saltOrder {
		out = append(out, salts[id])
	}
	return out
}
