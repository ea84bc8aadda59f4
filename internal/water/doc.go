// Package water defines the core domain values for brewing water chemistry.
//
// # Value Types
//
// The central type is Profile, a record of dissolved ion concentrations in
// mg/L. Profiles are plain values: calculations copy them, derive new ones,
// and never mutate their inputs. The other shared values are Volumes (batch
// water split across mash and sparge), Additions (salt grams keyed by salt
// ID), and GrainBill (the malts contributing acidity and buffering).
//
// # Derived Metrics
//
// Profile carries the classic water-report numbers as methods: residual
// alkalinity (Kolbach), sulfate:chloride ratio, total and effective
// hardness, and an ion charge balance used to sanity-check water reports.
//
// # Diagnostics
//
// Calculations in this repo never write warnings to a log or output stream.
// Non-fatal conditions (an unknown salt ID, a suspect water report, an
// infeasible optimization target) are returned as Diagnostic values inside
// result types so callers and tests can inspect them.
//
// # Units
//
// Ion concentrations are mg/L (ppm), volumes are liters, grain weights are
// kilograms, and grain color is SRM everywhere in this repo. EBCToSRM and
// SRMToEBC are the only conversion boundary.
package water
