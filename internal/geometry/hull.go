package geometry

import "sort"

// ConvexHull computes the 2D convex hull of the given coordinates using
// Andrew's monotone chain. The returned vertices are in counter-clockwise
// order without repeating the first one. Degenerate inputs (fewer than three
// distinct positions) return the distinct positions as-is.
func ConvexHull(coords []Coordinate) []Coordinate {
	pts := make([]Coordinate, len(coords))
	copy(pts, coords)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	// dedupe equal positions, z is irrelevant here
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p.X != uniq[len(uniq)-1].X || p.Y != uniq[len(uniq)-1].Y {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}

	var lower, upper []Coordinate
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// PointInConvexHull reports whether x,y lies inside or on the boundary of the
// convex hull vertices returned by ConvexHull.
func PointInConvexHull(hull []Coordinate, x, y float64) bool {
	if len(hull) < 3 {
		return pointOnDegenerateHull(hull, x, y)
	}
	p := Coordinate{X: x, Y: y}
	for i := range hull {
		if cross(hull[i], hull[(i+1)%len(hull)], p) < 0 {
			return false
		}
	}
	return true
}

func pointOnDegenerateHull(hull []Coordinate, x, y float64) bool {
	switch len(hull) {
	case 1:
		return hull[0].X == x && hull[0].Y == y
	case 2:
		a, b := hull[0], hull[1]
		p := Coordinate{X: x, Y: y}
		if cross(a, b, p) != 0 {
			return false
		}
		return x >= min(a.X, b.X) && x <= max(a.X, b.X) &&
			y >= min(a.Y, b.Y) && y <= max(a.Y, b.Y)
	}
	return false
}

func cross(o, a, b Coordinate) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
