package compose

import (
	"sort"

	"github.com/hopsmith/brewwater/internal/catalog"
	"github.com/hopsmith/brewwater/internal/water"
)

// Options are the composer's chemistry assumptions.
type Options struct {
	// AssumeCarbonateDissolution models carbonate salts fully dissolving at
	// mash pH: chalk's carbonate converts to bicarbonate by molar mass and
	// pickling lime absorbs CO2 into bicarbonate. When false, carbonate is
	// reported on its own channel and lime adds no bicarbonate.
	AssumeCarbonateDissolution bool
}

// DefaultOptions returns the composer defaults (carbonate dissolution on).
func DefaultOptions() Options {
	return Options{AssumeCarbonateDissolution: true}
}

// Result is a composed profile plus any non-fatal diagnostics collected on
// the way (unknown salt IDs, for example).
type Result struct {
	Profile     water.Profile
	Diagnostics []water.Diagnostic
}

// hco3PerCO3 converts dissolved carbonate to the bicarbonate it becomes:
// the HCO3/CO3 molar mass ratio.
const hco3PerCO3 = 61.016 / 60.008

// Apply adds every salt's ion contributions to a copy of source and returns
// the achieved profile. Salts missing from the catalog are skipped with a
// diagnostic instead of aborting the whole calculation. The source profile
// is never mutated.
//
// stages records where each salt is physically added and only matters under
// water.VolumeModeStaged; a missing entry means a boil (full batch)
// addition.
func Apply(source water.Profile, additions water.Additions, vol water.Volumes, mode water.VolumeMode, stages map[string]water.Stage, opts Options) Result {
	result := Result{Profile: source}

	// Sorted iteration keeps diagnostics deterministic; the profile sums
	// commute either way.
	ids := make([]string, 0, len(additions))
	for id := range additions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		grams := additions[id]
		if grams == 0 {
			continue
		}

		salt, ok := catalog.SaltByID(id)
		if !ok {
			result.Diagnostics = append(result.Diagnostics,
				water.Diagf(water.DiagUnknownSalt, "salt %q is not in the catalog; skipped", id))
			continue
		}

		stage := stages[id]
		for ion, yield := range salt.Yields {
			ppm := Contribution(grams, yield, vol, mode, stage)
			if ion == water.IonCarbonate && opts.AssumeCarbonateDissolution {
				result.Profile.Add(water.IonBicarbonate, ppm*hco3PerCO3)
				continue
			}
			result.Profile.Add(ion, ppm)
		}

		// Hydroxide sources only bring bicarbonate when they get to absorb
		// CO2, i.e. under the dissolution assumption.
		if salt.DissolvedHCO3Yield > 0 && opts.AssumeCarbonateDissolution {
			result.Profile.Add(water.IonBicarbonate,
				Contribution(grams, salt.DissolvedHCO3Yield, vol, mode, stage))
		}
	}

	return result
}
