// Package compose turns salt additions into ion contributions and applies
// them to water profiles. Everything here is a pure function: inputs are
// never mutated and non-fatal problems come back as diagnostics.
package compose

import "github.com/hopsmith/brewwater/internal/water"

// Contribution converts grams of a salt into the ppm one ion gains, given
// the salt's yield (ppm per gram per liter) and the effective volume the
// addition dissolves into: ppm = grams / effectiveVolume × yield.
//
// A zero effective volume yields zero rather than an error: a zero sparge
// volume is a legitimate input, not a failure.
func Contribution(grams, yieldPerGram float64, vol water.Volumes, mode water.VolumeMode, stage water.Stage) float64 {
	ev := EffectiveVolume(vol, mode, stage)
	if ev <= 0 {
		return 0
	}
	return grams / ev * yieldPerGram
}

// EffectiveVolume picks the volume an addition normalizes against.
// Mash-normalized is the default and ignores where the salt physically
// goes; staged honors the stage, with boil additions dissolving into the
// full batch. The optimizers use the same policy when sizing grams.
func EffectiveVolume(vol water.Volumes, mode water.VolumeMode, stage water.Stage) float64 {
	switch mode {
	case water.VolumeModeWholeBatch:
		return vol.Total
	case water.VolumeModeStaged:
		switch stage {
		case water.StageMash:
			return vol.Mash
		case water.StageSparge:
			return vol.Sparge
		default:
			return vol.Total
		}
	default:
		// Covers VolumeModeMashNormalized and the zero value.
		return vol.Mash
	}
}
