package data

import "fmt"

// Cloud is a classified point cloud loaded wholesale from a single source
// artifact. ClassAttr names the attribute the Class field of each point was
// populated from; HasClassAttr records whether the source actually carried it.
type Cloud struct {
	Points       []Point
	ClassAttr    string
	HasClassAttr bool
}

// Len returns the number of points in the cloud.
func (c *Cloud) Len() int {
	return len(c.Points)
}

// TerrainSubset returns the points whose classification attribute equals
// terrainClass. It fails with ErrMissingClassification when the source cloud
// did not carry the classification attribute, and with ErrEmptyInput when the
// attribute is present but selects no points.
func (c *Cloud) TerrainSubset(terrainClass uint8) ([]Point, error) {
	if !c.HasClassAttr {
		return nil, fmt.Errorf("attribute %q: %w", c.ClassAttr, ErrMissingClassification)
	}
	var terrain []Point
	for _, p := range c.Points {
		if p.Class == terrainClass {
			terrain = append(terrain, p)
		}
	}
	if len(terrain) == 0 {
		return nil, fmt.Errorf("no terrain points found (%s == %d): %w", c.ClassAttr, terrainClass, ErrEmptyInput)
	}
	return terrain, nil
}
