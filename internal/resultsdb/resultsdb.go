// Package resultsdb persists run results to a SQLite database so successive
// surveys of the same site can be queried side by side.
package resultsdb

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

type ResultsDB struct {
	*sql.DB
}

// Open opens or creates the results database and applies the schema.
func Open(path string) (*ResultsDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply results schema: %w", err)
	}
	return &ResultsDB{db}, nil
}

// RunRecord describes one pipeline invocation.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	InputCloud string
	InputPolys string
	TargetSrid int
	CellSize   float64
}

// NewRunRecord allocates a run identity for the given inputs.
func NewRunRecord(inputCloud, inputPolys string, targetSrid int, cellSize float64) RunRecord {
	return RunRecord{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		InputCloud: inputCloud,
		InputPolys: inputPolys,
		TargetSrid: targetSrid,
		CellSize:   cellSize,
	}
}

// FeatureRow is one persisted feature result.
type FeatureRow struct {
	PredID          string
	Volume          float64
	PointCount      int
	CoveragePercent float64
}

// StoreRun writes the run record and all its feature rows in one transaction.
func (db *ResultsDB) StoreRun(run RunRecord, rows []FeatureRow) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, started_at, input_cloud, input_polys, target_srid, cell_size)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt.Format(time.RFC3339), run.InputCloud, run.InputPolys,
		run.TargetSrid, run.CellSize,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO feature_results (run_id, pred_id, volume_m3, point_count, coverage_percent)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(run.RunID, r.PredID, r.Volume, r.PointCount, r.CoveragePercent); err != nil {
			return fmt.Errorf("insert feature %s: %w", r.PredID, err)
		}
	}
	return tx.Commit()
}
