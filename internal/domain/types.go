// Package domain contains the core business entities and types for symptom
// triage. The triage output is a rule-derived urgency classification, not a
// clinical diagnosis, and every type here is designed to keep that
// distinction auditable.
package domain

import "errors"

// Severity represents the user-reported intensity of symptoms.
type Severity string

const (
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// Duration represents how long the user has experienced the symptoms.
type Duration string

const (
	DurationHours  Duration = "Hours"
	DurationDays   Duration = "Days"
	DurationWeeks  Duration = "Weeks"
	DurationMonths Duration = "Months"
	DurationYears  Duration = "Years"
)

// RiskLevel is the discrete urgency tier produced by the risk estimator.
// RiskUnknown is reserved for the fail-safe error result and is never
// produced by the scoring rules themselves.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskUnknown  RiskLevel = "unknown"
)

// MaxAge is the upper bound for accepted patient ages. The stored-check
// schema enforces the same bound.
const MaxAge = 120

// Validation errors for triage inputs.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidSeverity = errors.New("invalid symptom severity")
	ErrInvalidDuration = errors.New("invalid symptom duration")
	ErrInvalidAge      = errors.New("age must be between 1 and 120")
)

// IsValid reports whether the severity is one of the accepted values.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	default:
		return false
	}
}

// Points returns the risk contribution of the severity. Unknown values
// contribute nothing, matching the tolerant behavior of the scoring rules.
func (s Severity) Points() int {
	switch s {
	case SeverityModerate:
		return 1
	case SeveritySevere:
		return 2
	default:
		return 0
	}
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// IsValid reports whether the duration is one of the accepted values.
func (d Duration) IsValid() bool {
	switch d {
	case DurationHours, DurationDays, DurationWeeks, DurationMonths, DurationYears:
		return true
	default:
		return false
	}
}

// IsProlonged reports whether the duration is long enough to escalate a
// moderate-severity case into an attention recommendation.
func (d Duration) IsProlonged() bool {
	switch d {
	case DurationWeeks, DurationMonths, DurationYears:
		return true
	default:
		return false
	}
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return string(d)
}

// IsValid reports whether the risk level is one of the accepted values.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskModerate, RiskHigh, RiskUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// Severities lists the accepted severity values in display order.
func Severities() []Severity {
	return []Severity{SeverityMild, SeverityModerate, SeveritySevere}
}

// Durations lists the accepted duration values in display order.
func Durations() []Duration {
	return []Duration{DurationHours, DurationDays, DurationWeeks, DurationMonths, DurationYears}
}
