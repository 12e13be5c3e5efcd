package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"

	"github.com/symptom-triage-server/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL history store.
// It expects the database and schema to already exist (created via migrations).
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL history store from a connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

const pgCheckColumns = `id, check_id, age, gender, symptoms, duration, severity,
	additional_info, using_ai, analysis_result, risk_level,
	seek_medical_attention, created_at`

// Save stores a completed symptom check.
func (s *PostgresStore) Save(ctx context.Context, record *CheckRecord) error {
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

	query := `
		INSERT INTO symptom_checks (
			check_id, age, gender, symptoms, duration, severity,
			additional_info, using_ai, analysis_result, risk_level,
			seek_medical_attention, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	err = s.db.QueryRowContext(ctx, query,
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
	).Scan(&record.ID)

	if err != nil {
		return fmt.Errorf("failed to save check: %w", err)
	}
	return nil
}

// Get retrieves a check by its public check ID.
func (s *PostgresStore) Get(ctx context.Context, checkID string) (*CheckRecord, error) {
	query := `SELECT ` + pgCheckColumns + ` FROM symptom_checks WHERE check_id = $1 LIMIT 1`

	record, err := scanCheck(s.db.QueryRowContext(ctx, query, checkID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get check: %w", err)
	}
	return record, nil
}

// List returns checks in reverse chronological order.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*CheckRecord, error) {
	query := `SELECT ` + pgCheckColumns + ` FROM symptom_checks ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
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
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM symptom_checks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count checks: %w", err)
	}
	return count, nil
}

// Delete removes a check by its public check ID.
func (s *PostgresStore) Delete(ctx context.Context, checkID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM symptom_checks WHERE check_id = $1", checkID)
	if err != nil {
		return fmt.Errorf("failed to delete check: %w", err)
	}
	return nil
}

// pgMaxExportLimit is the maximum number of entries to export at once.
const pgMaxExportLimit = 1000000

// ExportJSON exports the whole history to a JSON writer.
func (s *PostgresStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	all, err := s.List(ctx, pgMaxExportLimit, 0)
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
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
