package domain

import "context"

// ConditionEntry is a static catalog record describing one named possible
// health condition. Entries are matching targets, not a verified medical
// taxonomy. RiskLevel and SeekMedicalAttention are intrinsic reference data
// carried for completeness; the scoring rules recompute both dynamically and
// never read these fields.
type ConditionEntry struct {
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	CommonSymptoms       []string  `json:"common_symptoms"`
	DietRecommendations  []string  `json:"diet_recommendations"`
	RiskLevel            RiskLevel `json:"risk_level"`
	SeekMedicalAttention bool      `json:"seek_medical_attention"`
}

// AnalysisRequest carries one user's triage inputs. Symptoms are matched by
// exact string equality against catalog symptom labels; no normalization is
// performed. Gender is accepted for parity with the LLM-backed strategy and
// is not consumed by any scoring rule.
type AnalysisRequest struct {
	Symptoms       []string `json:"symptoms" binding:"required"`
	Age            int      `json:"age" binding:"required"`
	Gender         string   `json:"gender"`
	Duration       Duration `json:"duration"`
	Severity       Severity `json:"severity"`
	AdditionalInfo string   `json:"additional_info,omitempty"`
}

// Validate checks request fields at the API boundary. The rule-based core
// itself is tolerant of unknown enum values; this stricter check exists so
// callers get actionable feedback before an analysis is attempted.
func (r *AnalysisRequest) Validate() error {
	if r.Age <= 0 || r.Age > MaxAge {
		return ErrInvalidAge
	}
	if !r.Severity.IsValid() {
		return ErrInvalidSeverity
	}
	if !r.Duration.IsValid() {
		return ErrInvalidDuration
	}
	return nil
}

// PossibleCondition is a catalog entry projected into the analysis output.
// The intrinsic risk and attention fields are deliberately dropped.
type PossibleCondition struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	CommonSymptoms      []string `json:"common_symptoms"`
	DietRecommendations []string `json:"diet_recommendations"`
}

// AnalysisResult is the structured output of one triage call. Field names
// are fixed for compatibility with the report generator and the LLM-backed
// strategy, which produce the same shape.
type AnalysisResult struct {
	PossibleConditions   []PossibleCondition `json:"possible_conditions"`
	RiskLevel            RiskLevel           `json:"risk_level"`
	SeekMedicalAttention bool                `json:"seek_medical_attention"`
	GeneralAdvice        string              `json:"general_advice"`
	MedicalSources       []string            `json:"medical_sources"`

	// Error and Message are present only on the fail-safe path. Callers
	// must check Error before trusting the rest of the payload.
	Error   bool   `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Fallback sources returned on the fail-safe path.
var failSafeSources = []string{
	"https://www.who.int",
	"https://www.mayoclinic.org",
}

// failSafeAdvice is the generic retry message for the fail-safe result.
const failSafeAdvice = "We encountered an error analyzing your symptoms. " +
	"Please try again or consult a healthcare professional."

// NewFailSafeResult builds the error-flagged result every analysis strategy
// collapses to on internal failure. Risk is reported as unknown and medical
// attention is recommended: failures default to caution, never to silently
// under-reporting risk.
func NewFailSafeResult(message string) *AnalysisResult {
	return &AnalysisResult{
		PossibleConditions:   []PossibleCondition{},
		RiskLevel:            RiskUnknown,
		SeekMedicalAttention: true,
		GeneralAdvice:        failSafeAdvice,
		MedicalSources:       append([]string(nil), failSafeSources...),
		Error:                true,
		Message:              message,
	}
}

// Analyzer is the single capability every analysis strategy implements. The
// rule-based scorer and the LLM-backed strategy are interchangeable behind
// it; the caller selects an implementation via configuration.
//
// Analyze never fails with a Go error: any internal failure is folded into
// an error-flagged AnalysisResult so the caller always receives a
// well-formed payload.
type Analyzer interface {
	Analyze(ctx context.Context, req *AnalysisRequest) *AnalysisResult
}
