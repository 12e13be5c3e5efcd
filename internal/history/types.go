// Package history persists completed symptom checks so users can review
// past analyses. Two interchangeable backends exist: SQLite for standalone
// deployments and PostgreSQL for shared ones.
package history

import (
	"context"
	"io"
	"time"

	"github.com/symptom-triage-server/internal/domain"
)

// CheckRecord is one completed symptom check: the triage inputs plus the
// analysis produced for them. RiskLevel and SeekMedicalAttention are
// denormalized from the result so listings can show them without decoding
// the full payload.
type CheckRecord struct {
	ID                   int64                  `json:"id,omitempty"`
	CheckID              string                 `json:"check_id"`
	Age                  int                    `json:"age"`
	Gender               string                 `json:"gender"`
	Symptoms             []string               `json:"symptoms"`
	Duration             domain.Duration        `json:"duration"`
	Severity             domain.Severity        `json:"severity"`
	AdditionalInfo       string                 `json:"additional_info,omitempty"`
	UsingAI              bool                   `json:"using_ai"`
	Result               *domain.AnalysisResult `json:"result"`
	RiskLevel            domain.RiskLevel       `json:"risk_level"`
	SeekMedicalAttention bool                   `json:"seek_medical_attention"`
	CreatedAt            time.Time              `json:"created_at"`
}

// Store defines check-history storage operations.
type Store interface {
	// Save stores a completed check and assigns its row ID.
	Save(ctx context.Context, record *CheckRecord) error

	// Get retrieves a check by its public check ID. Returns
	// domain.ErrNotFound when no such check exists.
	Get(ctx context.Context, checkID string) (*CheckRecord, error)

	// List returns checks in reverse chronological order with pagination.
	List(ctx context.Context, limit, offset int) ([]*CheckRecord, error)

	// Count returns the total number of stored checks.
	Count(ctx context.Context) (int64, error)

	// Delete removes a check by its public check ID.
	Delete(ctx context.Context, checkID string) error

	// ExportJSON writes the full history as JSON.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// Close releases the backing resources.
	Close() error
}

// Export is the JSON export envelope.
type Export struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Count      int            `json:"count"`
	Checks     []*CheckRecord `json:"checks"`
}
