package geometry

import "testing"

func TestConvexHullSquare(t *testing.T) {
	coords := []Coordinate{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		// interior points must not appear on the hull
		{X: 5, Y: 5}, {X: 2, Y: 7},
	}
	hull := ConvexHull(coords)
	if len(hull) != 4 {
		t.Fatalf("expected 4 hull vertices, got %d: %v", len(hull), hull)
	}

	cases := []struct {
		name   string
		x, y   float64
		inside bool
	}{
		{"centre", 5, 5, true},
		{"corner", 0, 0, true},
		{"edge", 5, 0, true},
		{"outside right", 11, 5, false},
		{"outside diagonal", -1, -1, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := PointInConvexHull(hull, c.x, c.y); got != c.inside {
				t.Errorf("PointInConvexHull(%g,%g) = %v, want %v", c.x, c.y, got, c.inside)
			}
		})
	}
}

func TestConvexHullTriangleExcludesFarCorner(t *testing.T) {
	coords := []Coordinate{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}
	hull := ConvexHull(coords)
	if len(hull) != 3 {
		t.Fatalf("expected 3 hull vertices, got %d", len(hull))
	}
	if PointInConvexHull(hull, 9, 9) {
		t.Error("(9,9) should be outside the triangle hull")
	}
	if !PointInConvexHull(hull, 2, 2) {
		t.Error("(2,2) should be inside the triangle hull")
	}
}

func TestConvexHullDegenerate(t *testing.T) {
	t.Run("single point", func(t *testing.T) {
		hull := ConvexHull([]Coordinate{{X: 3, Y: 4}})
		if len(hull) != 1 {
			t.Fatalf("expected 1 vertex, got %d", len(hull))
		}
		if !PointInConvexHull(hull, 3, 4) {
			t.Error("the point itself should be on the hull")
		}
		if PointInConvexHull(hull, 3, 5) {
			t.Error("other points should be outside a single point hull")
		}
	})

	t.Run("collinear", func(t *testing.T) {
		hull := ConvexHull([]Coordinate{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}})
		if !PointInConvexHull(hull, 5, 0) {
			t.Error("midpoint of a collinear hull should be contained")
		}
		if PointInConvexHull(hull, 5, 1) {
			t.Error("off-segment point should not be contained")
		}
	})
}

func TestBoundingBox(t *testing.T) {
	bbox := NewBoundingBox([]Coordinate{{X: 1, Y: 2}, {X: -3, Y: 8}, {X: 4, Y: 0}})
	if bbox.Xmin != -3 || bbox.Xmax != 4 || bbox.Ymin != 0 || bbox.Ymax != 8 {
		t.Errorf("unexpected bbox %+v", bbox)
	}
	if !bbox.Contains(4, 8) {
		t.Error("bbox should contain its own max corner")
	}
	if bbox.Contains(4.1, 8) {
		t.Error("bbox should not contain points past the max corner")
	}
}
