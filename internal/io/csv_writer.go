// Package io writes the tabular and geometric result artifacts of a run.
package io

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/terramensura/heapvol/internal/analysis"
)

// number of decimal places in the CSV output; keeps files byte stable across
// platforms regardless of float formatting quirks
const csvPrecision = 2

// WriteResultsCSV writes one row per successfully processed feature, in
// result order, without the geometry column.
func WriteResultsCSV(path string, results []analysis.FeatureResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"pred_ID", "volume_m3", "point_count", "coverage_percent"}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.PredID,
			decimal.NewFromFloat(r.Volume).Round(csvPrecision).String(),
			strconv.Itoa(r.PointCount),
			decimal.NewFromFloat(r.CoveragePercent).Round(csvPrecision).String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
