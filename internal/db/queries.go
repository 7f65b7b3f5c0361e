package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/catalog-eda/internal/logger"
	"github.com/j-veylop/catalog-eda/internal/models"
)

var timeFormats = []string{
	timeLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 +0000 UTC",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

const runColumns = `id, dataset_path, dataset_sha256, record_count, warning_count, top_n, histogram_bins, fingerprint, created_at`

// InsertRun records a run and the aggregates of its report in one
// transaction. run.ID and a zero run.CreatedAt are filled in.
func (db *DB) InsertRun(run *models.Run, rep *models.Report) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs (dataset_path, dataset_sha256, record_count, warning_count, top_n, histogram_bins, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.DatasetPath,
		run.DatasetSHA256,
		run.RecordCount,
		run.WarningCount,
		run.TopN,
		run.HistogramBins,
		run.Fingerprint,
		run.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read run id: %w", err)
	}

	if rep != nil {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_aggregates (run_id, chart, position, label, value) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare aggregate insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for chart, points := range AggregatePoints(rep) {
			for pos, p := range points {
				if _, err := stmt.ExecContext(ctx, id, chart, pos, p.Label, p.Value); err != nil {
					return fmt.Errorf("failed to insert aggregate %s[%d]: %w", chart, pos, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	run.ID = id
	return nil
}

// AggregatePoints flattens a report into the points stored per chart.
// Duration partitions are stored as their mean.
func AggregatePoints(rep *models.Report) map[string][]models.AggregatePoint {
	out := make(map[string][]models.AggregatePoint)

	for chart, table := range rep.Frequencies() {
		points := make([]models.AggregatePoint, len(table))
		for i, e := range table {
			points[i] = models.AggregatePoint{Label: e.Label, Value: float64(e.Count)}
		}
		out[chart] = points
	}

	hist := make([]models.AggregatePoint, len(rep.ReleaseYears))
	for i, b := range rep.ReleaseYears {
		hist[i] = models.AggregatePoint{Label: fmt.Sprintf("%.0f-%.0f", b.Low, b.High), Value: float64(b.Count)}
	}
	out[models.ChartReleaseYears] = hist

	timelines := map[string]models.TimelineSeries{
		models.ChartAddedByYear:  rep.AddedByYear,
		models.ChartAddedByMonth: rep.AddedByMonth,
	}
	for chart, series := range timelines {
		points := make([]models.AggregatePoint, len(series))
		for i, p := range series {
			points[i] = models.AggregatePoint{Label: p.Period.String(), Value: float64(p.Count)}
		}
		out[chart] = points
	}

	durations := make([]models.AggregatePoint, 0, len(rep.Durations))
	for _, key := range rep.Durations.Keys() {
		durations = append(durations, models.AggregatePoint{Label: key, Value: rep.DurationSummaries[key].Mean})
	}
	out[models.ChartDurations] = durations

	return out
}

// GetRecentRuns returns the most recent runs, newest first.
func (db *DB) GetRecentRuns(limit int) ([]models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	return scanRuns(rows)
}

// GetRun returns a run by id.
func (db *DB) GetRun(id int64) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

	run, err := scanRun(db.QueryRowContext(context.Background(), query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// FindRunsByDataset returns all runs over a dataset hash, oldest first.
func (db *DB) FindRunsByDataset(sha string) ([]models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE dataset_sha256 = ? ORDER BY created_at ASC, id ASC`

	rows, err := db.QueryContext(context.Background(), query, sha)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs by dataset: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRuns(rows)
}

// GetRunAggregates returns the stored points of one chart in position order.
func (db *DB) GetRunAggregates(runID int64, chart string) ([]models.AggregatePoint, error) {
	query := `
		SELECT label, value
		FROM run_aggregates
		WHERE run_id = ? AND chart = ?
		ORDER BY position ASC
	`

	rows, err := db.QueryContext(context.Background(), query, runID, chart)
	if err != nil {
		return nil, fmt.Errorf("failed to query run aggregates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []models.AggregatePoint
	for rows.Next() {
		var p models.AggregatePoint
		if err := rows.Scan(&p.Label, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

// GetRunsPerMonth counts recorded runs per calendar month, ascending.
func (db *DB) GetRunsPerMonth() ([]models.MonthlyRunCount, error) {
	query := `
		SELECT year, month, COUNT(*)
		FROM runs
		GROUP BY year, month
		ORDER BY year ASC, month ASC
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs per month: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []models.MonthlyRunCount
	for rows.Next() {
		var c models.MonthlyRunCount
		var year, month sql.NullInt64
		if err := rows.Scan(&year, &month, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan monthly run count: %w", err)
		}
		if !year.Valid || !month.Valid {
			continue
		}
		c.Period = models.Bucket{Year: int(year.Int64), Month: int(month.Int64)}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// DeleteRun removes a run; its aggregates go with it through the foreign
// key.
func (db *DB) DeleteRun(id int64) error {
	res, err := db.ExecContext(context.Background(), "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var run models.Run
	var createdAt string
	err := row.Scan(
		&run.ID,
		&run.DatasetPath,
		&run.DatasetSHA256,
		&run.RecordCount,
		&run.WarningCount,
		&run.TopN,
		&run.HistogramBins,
		&run.Fingerprint,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	if t, ok := parseTimeString(createdAt); ok {
		run.CreatedAt = t
	}
	return &run, nil
}

func scanRuns(rows *sql.Rows) ([]models.Run, error) {
	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}
