package pkg

import (
	"fmt"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/terramensura/heapvol/internal/analysis"
	"github.com/terramensura/heapvol/internal/converters"
	"github.com/terramensura/heapvol/internal/data"
	"github.com/terramensura/heapvol/internal/geometry"
	hio "github.com/terramensura/heapvol/internal/io"
	"github.com/terramensura/heapvol/internal/lasread"
	"github.com/terramensura/heapvol/internal/pipeline"
	"github.com/terramensura/heapvol/internal/raster"
	"github.com/terramensura/heapvol/internal/report"
	"github.com/terramensura/heapvol/internal/resultsdb"
	"github.com/terramensura/heapvol/internal/surface"
	"github.com/terramensura/heapvol/internal/vector"
	"github.com/terramensura/heapvol/tools"
)

type IPipeline interface {
	RunPipeline(opts *pipeline.Options) error
}

// Pipeline estimates volume and point coverage for every candidate polygon
// against a ground surface built from the terrain returns of the input cloud.
type Pipeline struct {
	fileFinder tools.FileFinder
	converter  converters.CoordinateConverter
}

func NewPipeline(fileFinder tools.FileFinder, converter converters.CoordinateConverter) IPipeline {
	return &Pipeline{
		fileFinder: fileFinder,
		converter:  converter,
	}
}

// Starts the estimation pipeline. The ground surface is always built first
// and persisted; polygon processing only begins once it is complete. When no
// polygon input is configured the run stops after the surface is written.
func (p *Pipeline) RunPipeline(opts *pipeline.Options) error {
	var features *vector.FeatureSet
	if opts.InputPolygons != "" {
		var err error
		features, err = p.loadFeatures(opts)
		if err != nil {
			return err
		}
	}

	cloud, err := p.loadCloud(opts)
	if err != nil {
		return err
	}

	surf, err := p.buildSurface(cloud, opts)
	if err != nil {
		return err
	}

	if features == nil {
		return nil
	}

	results := p.processFeatures(cloud, surf, features, opts)
	return p.writeOutputs(results, opts)
}

// Reads the candidate polygons and reprojects them into the working CRS.
func (p *Pipeline) loadFeatures(opts *pipeline.Options) (*vector.FeatureSet, error) {
	tools.LogOutput("> reading candidate polygons from", filepath.Base(opts.InputPolygons))
	features, err := vector.LoadFeatureSet(opts.InputPolygons)
	if err != nil {
		return nil, fmt.Errorf("load polygons: %w", err)
	}
	reprojected, err := p.converter.ConvertFeatureSet(features, opts.TargetSrid)
	if err != nil {
		return nil, fmt.Errorf("reproject polygons: %w", err)
	}
	tools.LogOutput("> loaded", strconv.Itoa(len(reprojected.Features)), "polygons")
	return reprojected, nil
}

// Reads the configured LAS inputs wholesale into one classified cloud.
func (p *Pipeline) loadCloud(opts *pipeline.Options) (*data.Cloud, error) {
	files := p.fileFinder.GetCloudFilesToProcess(opts)
	if len(files) == 0 {
		return nil, fmt.Errorf("load cloud: no LAS files found under %s", opts.InputCloud)
	}

	merged := &data.Cloud{ClassAttr: opts.ClassAttr, HasClassAttr: true}
	for i, filePath := range files {
		tools.LogOutput("Reading file " + strconv.Itoa(i+1) + "/" + strconv.Itoa(len(files)) + " " + filepath.Base(filePath))
		cloud, err := lasread.ReadCloud(filePath, opts.ClassAttr)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filePath, err)
		}
		merged.Points = append(merged.Points, cloud.Points...)
	}
	if merged.Len() == 0 {
		return nil, fmt.Errorf("load cloud: %w", data.ErrEmptyInput)
	}
	tools.LogOutput("> loaded", strconv.Itoa(merged.Len()), "points")
	return merged, nil
}

// Builds the ground surface from the terrain subset and persists it. This is
// the hard barrier of the run: nothing downstream starts before it returns.
func (p *Pipeline) buildSurface(cloud *data.Cloud, opts *pipeline.Options) (*surface.Surface, error) {
	terrain, err := cloud.TerrainSubset(opts.TerrainClass)
	if err != nil {
		return nil, err
	}
	tools.LogOutput("> interpolating ground surface from", strconv.Itoa(len(terrain)), "terrain points")

	surf, err := surface.Build(terrain, opts.CellSize, opts.TargetSrid)
	if err != nil {
		return nil, err
	}
	if opts.OutputRaster != "" {
		if err := raster.WriteSurface(opts.OutputRaster, surf); err != nil {
			return nil, fmt.Errorf("write surface raster: %w", err)
		}
		tools.LogOutput("> ground surface saved to", opts.OutputRaster)
	}
	return surf, nil
}

// Runs the per-polygon loop. Results keep the input polygon order regardless
// of the worker count; polygons with no points are skipped with a diagnostic
// and contribute no record.
func (p *Pipeline) processFeatures(cloud *data.Cloud, surf *surface.Surface, features *vector.FeatureSet, opts *pipeline.Options) []analysis.FeatureResult {
	slots := make([]*analysis.FeatureResult, len(features.Features))

	process := func(i int) {
		feature := features.Features[i]
		tools.LogOutput("Processing heap ID: " + feature.PredID + "...")

		filtered := vector.FilterByPolygon(cloud, feature)
		if len(filtered) == 0 {
			tools.LogOutput("No LiDAR points found for heap ID: " + feature.PredID + ". Skipping...")
			return
		}

		coords := make([]geometry.Coordinate, len(filtered))
		for j, pt := range filtered {
			coords[j] = geometry.Coordinate{X: pt.X, Y: pt.Y}
		}
		groundElev := surf.SampleMany(coords)

		summary, err := analysis.Aggregate(filtered, groundElev)
		if err != nil {
			// length mismatch between two slices built from one coordinate
			// list is an internal invariant violation
			panic(err)
		}
		slots[i] = &analysis.FeatureResult{
			PredID:   feature.PredID,
			Geometry: feature.Geometry,
			Summary:  summary,
		}
	}

	if opts.Workers <= 1 {
		for i := range features.Features {
			process(i)
		}
	} else {
		var wg sync.WaitGroup
		work := make(chan int)
		for w := 0; w < opts.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range work {
					process(i)
				}
			}()
		}
		for i := range features.Features {
			work <- i
		}
		close(work)
		wg.Wait()
	}

	var results []analysis.FeatureResult
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	return results
}

// Assembles the terminal artifacts: result table, geometry collection and
// the optional database and report outputs.
func (p *Pipeline) writeOutputs(results []analysis.FeatureResult, opts *pipeline.Options) error {
	tools.LogOutput("> writing", strconv.Itoa(len(results)), "feature results")

	if opts.OutputCSV != "" {
		if err := hio.WriteResultsCSV(opts.OutputCSV, results); err != nil {
			return err
		}
		tools.LogOutput("> results saved to", opts.OutputCSV)
	}
	if opts.OutputGeoJSON != "" {
		if err := hio.WriteResultsGeoJSON(opts.OutputGeoJSON, results, opts.TargetSrid); err != nil {
			return err
		}
		tools.LogOutput("> results saved to", opts.OutputGeoJSON)
	}

	if opts.SQLitePath != "" {
		if err := p.storeResults(results, opts); err != nil {
			return err
		}
	}
	if opts.ReportPath != "" {
		if err := report.WriteVolumeReport(opts.ReportPath, results); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		tools.LogOutput("> report saved to", opts.ReportPath)
	}
	return nil
}

func (p *Pipeline) storeResults(results []analysis.FeatureResult, opts *pipeline.Options) error {
	db, err := resultsdb.Open(opts.SQLitePath)
	if err != nil {
		return fmt.Errorf("open results db: %w", err)
	}
	defer db.Close()

	run := resultsdb.NewRunRecord(opts.InputCloud, opts.InputPolygons, opts.TargetSrid, opts.CellSize)
	rows := make([]resultsdb.FeatureRow, len(results))
	for i, r := range results {
		rows[i] = resultsdb.FeatureRow{
			PredID:          r.PredID,
			Volume:          r.Volume,
			PointCount:      r.PointCount,
			CoveragePercent: r.CoveragePercent,
		}
	}
	if err := db.StoreRun(run, rows); err != nil {
		return fmt.Errorf("store results: %w", err)
	}
	tools.LogOutput("> results stored in", opts.SQLitePath, "run", run.RunID)
	return nil
}
