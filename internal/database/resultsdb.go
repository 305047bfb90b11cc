package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/radshape/nodulescan/internal/analysis"
	"github.com/radshape/nodulescan/internal/dataset"
	"github.com/radshape/nodulescan/internal/detection"
)

// dbFilename is the SQLite file created under the database directory.
const dbFilename = "nodulescan.db"

// ResultsDB provides SQLite-based storage for per-image analysis results.
// It manages connection pooling and provides methods for saving and
// querying analyses.
//
// Design decision: We use a single database file for all categories rather
// than one file per category. This keeps cross-category aggregation a
// single SQL query and simplifies backup/restore operations.
type ResultsDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ResultsDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ResultsDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ResultsDB, error) {
	dbPath := filepath.Join(dbDir, dbFilename)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses URI-style mode parameters: rw requires the
	// file to exist, rwc creates it.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ResultsDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *ResultsDB) Close() error {
	return rdb.db.Close()
}

// Path returns the location of the SQLite database file.
func (rdb *ResultsDB) Path() string {
	return rdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (rdb *ResultsDB) createTables() error {
	schema := `
	-- One row per analyzed image. Findings are stored as JSON so the
	-- schema does not need to change when detection parameters do.
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		filename TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		blob_count INTEGER NOT NULL,
		contour_count INTEGER NOT NULL,
		total_findings INTEGER NOT NULL,
		findings TEXT,
		output_path TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(category, filename)
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_category ON analyses(category);
	CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
	`

	if _, err := rdb.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// SaveResult inserts or updates the analysis row for an image.
// Re-analyzing the same image replaces the previous row.
func (rdb *ResultsDB) SaveResult(ctx context.Context, result *analysis.Result) (int64, error) {
	findingsJSON, err := json.Marshal(result.Findings)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize findings: %w", err)
	}

	query := `
	INSERT INTO analyses (category, filename, width, height, blob_count, contour_count, total_findings, findings, output_path)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(category, filename) DO UPDATE SET
		width = excluded.width,
		height = excluded.height,
		blob_count = excluded.blob_count,
		contour_count = excluded.contour_count,
		total_findings = excluded.total_findings,
		findings = excluded.findings,
		output_path = excluded.output_path,
		created_at = CURRENT_TIMESTAMP
	`

	res, err := rdb.db.ExecContext(ctx, query,
		string(result.Category),
		result.Filename,
		result.Width,
		result.Height,
		result.BlobCount,
		result.ContourCount,
		result.TotalFindings,
		string(findingsJSON),
		result.OutputPath,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save analysis: %w", err)
	}

	return res.LastInsertId()
}

// ListByCategory retrieves stored analyses for a category, newest first.
func (rdb *ResultsDB) ListByCategory(ctx context.Context, category dataset.Category) ([]analysis.Result, error) {
	query := `
	SELECT category, filename, width, height, blob_count, contour_count, total_findings, findings, output_path
	FROM analyses
	WHERE category = ?
	ORDER BY created_at DESC, id DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var results []analysis.Result
	for rows.Next() {
		var r analysis.Result
		var cat string
		var findingsJSON sql.NullString
		var outputPath sql.NullString

		if err := rows.Scan(&cat, &r.Filename, &r.Width, &r.Height,
			&r.BlobCount, &r.ContourCount, &r.TotalFindings,
			&findingsJSON, &outputPath); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}

		r.Category = dataset.Category(cat)
		r.OutputPath = outputPath.String
		if findingsJSON.Valid && findingsJSON.String != "" {
			var findings []detection.Finding
			if err := json.Unmarshal([]byte(findingsJSON.String), &findings); err != nil {
				return nil, fmt.Errorf("failed to parse findings for %s: %w", r.Filename, err)
			}
			r.Findings = findings
		}

		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}
	return results, nil
}

// CategoryTotal aggregates stored rows for one category.
type CategoryTotal struct {
	Category      dataset.Category
	ImageCount    int
	TotalBlobs    int
	TotalContours int
	TotalFindings int
}

// CategoryTotals aggregates stored analyses across all categories.
// Categories with no rows are absent from the result.
func (rdb *ResultsDB) CategoryTotals(ctx context.Context) ([]CategoryTotal, error) {
	query := `
	SELECT category, COUNT(*), SUM(blob_count), SUM(contour_count), SUM(total_findings)
	FROM analyses
	GROUP BY category
	ORDER BY category
	`

	rows, err := rdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var t CategoryTotal
		var cat string
		if err := rows.Scan(&cat, &t.ImageCount, &t.TotalBlobs, &t.TotalContours, &t.TotalFindings); err != nil {
			return nil, fmt.Errorf("failed to scan totals row: %w", err)
		}
		t.Category = dataset.Category(cat)
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate totals: %w", err)
	}
	return totals, nil
}
