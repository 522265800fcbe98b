package data

import (
	"errors"
	"math"
	"testing"
)

func TestTerrainSubset(t *testing.T) {
	cloud := &Cloud{
		ClassAttr:    "pred_class",
		HasClassAttr: true,
		Points: []Point{
			NewPoint(1, 1, 10, 0, 0),
			NewPoint(2, 2, 12, 0, 1),
			NewPoint(3, 3, 10.5, 0, 0),
		},
	}

	terrain, err := cloud.TerrainSubset(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(terrain) != 2 {
		t.Fatalf("expected 2 terrain points, got %d", len(terrain))
	}
	if terrain[0].Z != 10 || terrain[1].Z != 10.5 {
		t.Errorf("terrain subset out of order: %+v", terrain)
	}
}

func TestTerrainSubsetMissingAttribute(t *testing.T) {
	cloud := &Cloud{ClassAttr: "pred_class", Points: []Point{NewPoint(1, 1, 1, 0, 0)}}
	if _, err := cloud.TerrainSubset(0); !errors.Is(err, ErrMissingClassification) {
		t.Fatalf("expected ErrMissingClassification, got %v", err)
	}
}

func TestTerrainSubsetNoMatches(t *testing.T) {
	cloud := &Cloud{
		ClassAttr:    "pred_class",
		HasClassAttr: true,
		Points:       []Point{NewPoint(1, 1, 1, 0, 5)},
	}
	if _, err := cloud.TerrainSubset(0); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestPointIsFinite(t *testing.T) {
	if !NewPoint(1, 2, 3, 0, 0).IsFinite() {
		t.Error("finite point reported as non-finite")
	}
	for _, p := range []Point{
		{X: math.NaN()},
		{Y: math.Inf(1)},
		{Z: math.Inf(-1)},
	} {
		if p.IsFinite() {
			t.Errorf("point %+v reported as finite", p)
		}
	}
}
