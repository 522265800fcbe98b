// Package report renders a standalone HTML chart of per-feature volumes.
package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/terramensura/heapvol/internal/analysis"
)

// WriteVolumeReport renders one bar per feature, in result order, with the
// coverage percentage carried along for tooltips.
func WriteVolumeReport(path string, results []analysis.FeatureResult) error {
	names := make([]string, 0, len(results))
	volumes := make([]opts.BarData, 0, len(results))
	for _, r := range results {
		names = append(names, r.PredID)
		volumes = append(volumes, opts.BarData{
			Value: r.Volume,
			Name:  fmt.Sprintf("heap %s: %d pts, %.1f%% coverage", r.PredID, r.PointCount, r.CoveragePercent),
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Heap Volumes", Width: "1200px", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{Title: "Estimated heap volumes", Subtitle: fmt.Sprintf("%d features", len(results))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "pred_ID"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "volume (m³ proxy)"}),
	)
	bar.SetXAxis(names).AddSeries("volume", volumes,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return bar.Render(f)
}
