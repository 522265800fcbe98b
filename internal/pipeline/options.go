package pipeline

import "fmt"

// Contains the options needed to run the volume estimation pipeline
type Options struct {
	InputCloud    string  // Input LAS file/folder
	InputPolygons string  // Input GeoJSON with candidate heap polygons
	TargetSrid    int     // EPSG code the pipeline works in
	CellSize      float64 // DTM grid spacing in meters
	ClassAttr     string  // Name of the ground-classification attribute
	TerrainClass  uint8   // Attribute value marking terrain returns
	FolderInput   bool    // Enables the processing of all LAS files in folder
	Recursive     bool    // Recursive lookup of LAS files in subfolders
	Workers       int     // Per-polygon fan out; 1 keeps the loop sequential

	OutputRaster  string // DTM GeoTIFF path
	OutputCSV     string // Result table path
	OutputGeoJSON string // Result geometry collection path
	SQLitePath    string // Optional results database, empty disables
	ReportPath    string // Optional HTML volume report, empty disables
}

// Validate checks option consistency before any input is touched.
func (opt *Options) Validate() error {
	if opt.InputCloud == "" {
		return fmt.Errorf("input point cloud is required")
	}
	if opt.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %g", opt.CellSize)
	}
	if opt.TargetSrid <= 0 {
		return fmt.Errorf("target srid must be a positive EPSG code, got %d", opt.TargetSrid)
	}
	if opt.Workers < 1 {
		opt.Workers = 1
	}
	return nil
}
