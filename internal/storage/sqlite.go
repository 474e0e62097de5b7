package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Harshitkumar63/ai-ddr-builder/internal/core/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		inspection_file TEXT,
		thermal_file TEXT,
		report TEXT,
		merged JSON,
		validation JSON,
		conflict_count INTEGER
	);`)
	return err
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	merged, err := json.Marshal(run.Merged)
	if err != nil {
		return fmt.Errorf("failed to serialize merged data: %w", err)
	}
	validation, err := json.Marshal(run.Validation)
	if err != nil {
		return fmt.Errorf("failed to serialize validation result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, inspection_file, thermal_file, report, merged, validation, conflict_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at=excluded.created_at,
			inspection_file=excluded.inspection_file,
			thermal_file=excluded.thermal_file,
			report=excluded.report,
			merged=excluded.merged,
			validation=excluded.validation,
			conflict_count=excluded.conflict_count
	`, run.ID, run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.InspectionFile, run.ThermalFile, run.Report, merged, validation, run.ConflictCount)

	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, inspection_file, thermal_file, report, merged, validation, conflict_count
		FROM runs WHERE id = ?
	`, id)

	var (
		run        Run
		createdAt  string
		merged     []byte
		validation []byte
	)
	if err := row.Scan(&run.ID, &createdAt, &run.InspectionFile, &run.ThermalFile,
		&run.Report, &merged, &validation, &run.ConflictCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run not found: %s", id)
		}
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at for run %s: %w", id, err)
	}
	run.CreatedAt = t

	if len(merged) > 0 {
		run.Merged = &model.MergedData{}
		if err := json.Unmarshal(merged, run.Merged); err != nil {
			return nil, fmt.Errorf("corrupt merged data for run %s: %w", id, err)
		}
	}
	if len(validation) > 0 {
		if err := json.Unmarshal(validation, &run.Validation); err != nil {
			return nil, fmt.Errorf("corrupt validation result for run %s: %w", id, err)
		}
	}

	return &run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, inspection_file, thermal_file, conflict_count
		FROM runs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]RunSummary, 0)
	for rows.Next() {
		var (
			s         RunSummary
			createdAt string
		)
		if err := rows.Scan(&s.ID, &createdAt, &s.InspectionFile, &s.ThermalFile, &s.ConflictCount); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt created_at for run %s: %w", s.ID, err)
		}
		s.CreatedAt = t
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
