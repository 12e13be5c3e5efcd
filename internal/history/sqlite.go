package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/symptom-triage-server/internal/domain"
)

// SQLiteStore implements Store using SQLite. It owns its schema and needs
// no external migrations, which keeps the standalone deployment to a
// single data file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (and if necessary creates) the SQLite history store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for better concurrency between the API and exports.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS symptom_checks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		check_id TEXT NOT NULL UNIQUE,
		age INTEGER NOT NULL,
		gender TEXT DEFAULT '',
		symptoms TEXT NOT NULL,
		duration TEXT NOT NULL,
		severity TEXT NOT NULL,
		additional_info TEXT DEFAULT '',
		using_ai INTEGER NOT NULL DEFAULT 0,
		analysis_result TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		seek_medical_attention INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_check_id ON symptom_checks(check_id);
	CREATE INDEX IF NOT EXISTS idx_checks_created_at ON symptom_checks(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// scanner is an interface for sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCheck(s scanner) (*CheckRecord, error) {
	record := &CheckRecord{}
	var symptomsJSON, resultJSON, riskLevel, duration, severity string

	err := s.Scan(
		&record.ID, &record.CheckID, &record.Age, &record.Gender,
		&symptomsJSON, &duration, &severity, &record.AdditionalInfo,
		&record.UsingAI, &resultJSON, &riskLevel,
		&record.SeekMedicalAttention, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(symptomsJSON), &record.Symptoms); err != nil {
		return nil, fmt.Errorf("decoding stored symptoms: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &record.Result); err != nil {
		return nil, fmt.Errorf("decoding stored analysis result: %w", err)
	}

	record.Duration = domain.Duration(duration)
	record.Severity = domain.Severity(severity)
	record.RiskLevel = domain.RiskLevel(riskLevel)
	return record, nil
}

const checkColumns = `id, check_id, age, gender, symptoms, duration, severity,
	additional_info, using_ai, analysis_result, risk_level,
	seek_medical_attention, created_at`

// Save stores a completed symptom check.
func (s *SQLiteStore) Save(ctx context.Context, record *CheckRecord) error {
	symptomsJSON, err := json.Marshal(record.Symptoms)
	if err != nil {
		return fmt.Errorf("encoding symptoms: %w", err)
	}
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("encoding analysis result: %w", err)
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO symptom_checks (
			check_id, age, gender, symptoms, duration, severity,
			additional_info, using_ai, analysis_result, risk_level,
			seek_medical_attention, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.CheckID,
		record.Age,
		record.Gender,
		string(symptomsJSON),
		string(record.Duration),
		string(record.Severity),
		record.AdditionalInfo,
		record.UsingAI,
		string(resultJSON),
		string(record.RiskLevel),
		record.SeekMedicalAttention,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}
	record.ID = id

	return nil
}

// Get retrieves a check by its public check ID.
func (s *SQLiteStore) Get(ctx context.Context, checkID string) (*CheckRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+checkColumns+` FROM symptom_checks WHERE check_id = ? LIMIT 1`, checkID)

	record, err := scanCheck(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return record, nil
}

// List returns checks in reverse chronological order.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*CheckRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+checkColumns+` FROM symptom_checks ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*CheckRecord
	for rows.Next() {
		record, err := scanCheck(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

// Count returns the total number of stored checks.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM symptom_checks").Scan(&count)
	return count, err
}

// Delete removes a check by its public check ID.
func (s *SQLiteStore) Delete(ctx context.Context, checkID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM symptom_checks WHERE check_id = ?", checkID)
	return err
}

// maxExportLimit bounds a full-history export.
const maxExportLimit = 1000000

// ExportJSON exports the whole history to a JSON writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	all, err := s.List(ctx, maxExportLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list checks: %w", err)
	}

	export := &Export{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Count:      len(all),
		Checks:     all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
