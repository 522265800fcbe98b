// Package analysis turns filtered points and their sampled ground elevations
// into per-feature volume and coverage metrics.
package analysis

import (
	"github.com/paulmach/orb"
)

// FeatureResult is the terminal record produced for one successfully
// processed feature polygon. It is created once and never mutated.
type FeatureResult struct {
	PredID   string
	Geometry orb.Geometry
	Summary
}

// Summary holds the aggregated metrics of one feature, without its identity.
type Summary struct {
	// Volume is the sum of per-point height excess above the ground surface.
	// No cell area factor is applied: each point contributes its excess
	// height as a unit volumetric contribution, so the value is a
	// point-density-normalised volume proxy in cubic length units.
	Volume float64

	// PointCount is the number of points inside the polygon, regardless of
	// whether they lie above the ground surface.
	PointCount int

	// CoveragePercent is the share of points above the ground surface, 0-100.
	CoveragePercent float64
}
