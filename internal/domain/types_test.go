package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityPoints(t *testing.T) {
	tests := []struct {
		severity Severity
		points   int
	}{
		{SeverityMild, 0},
		{SeverityModerate, 1},
		{SeveritySevere, 2},
		{Severity("Unbearable"), 0}, // unknown values contribute nothing
	}

	for _, tt := range tests {
		assert.Equal(t, tt.points, tt.severity.Points(), "severity %s", tt.severity)
	}
}

func TestSeverityIsValid(t *testing.T) {
	assert.True(t, SeverityMild.IsValid())
	assert.True(t, SeverityModerate.IsValid())
	assert.True(t, SeveritySevere.IsValid())
	assert.False(t, Severity("mild").IsValid(), "matching is case sensitive")
	assert.False(t, Severity("").IsValid())
}

func TestDurationIsProlonged(t *testing.T) {
	assert.False(t, DurationHours.IsProlonged())
	assert.False(t, DurationDays.IsProlonged())
	assert.True(t, DurationWeeks.IsProlonged())
	assert.True(t, DurationMonths.IsProlonged())
	assert.True(t, DurationYears.IsProlonged())
	assert.False(t, Duration("Decades").IsProlonged())
}

func TestRiskLevelIsValid(t *testing.T) {
	for _, r := range []RiskLevel{RiskLow, RiskModerate, RiskHigh, RiskUnknown} {
		assert.True(t, r.IsValid())
	}
	assert.False(t, RiskLevel("critical").IsValid())
}

func TestAnalysisRequestValidate(t *testing.T) {
	valid := AnalysisRequest{
		Symptoms: []string{"Fever"},
		Age:      30,
		Gender:   "Female",
		Duration: DurationDays,
		Severity: SeverityMild,
	}
	assert.NoError(t, valid.Validate())

	noAge := valid
	noAge.Age = 0
	assert.ErrorIs(t, noAge.Validate(), ErrInvalidAge)

	tooOld := valid
	tooOld.Age = MaxAge + 1
	assert.ErrorIs(t, tooOld.Validate(), ErrInvalidAge)

	oldest := valid
	oldest.Age = MaxAge
	assert.NoError(t, oldest.Validate())

	badSeverity := valid
	badSeverity.Severity = "Terrible"
	assert.ErrorIs(t, badSeverity.Validate(), ErrInvalidSeverity)

	badDuration := valid
	badDuration.Duration = "Forever"
	assert.ErrorIs(t, badDuration.Validate(), ErrInvalidDuration)
}

func TestNewFailSafeResult(t *testing.T) {
	result := NewFailSafeResult("analysis failed: boom")

	assert.True(t, result.Error)
	assert.Equal(t, "analysis failed: boom", result.Message)
	assert.Equal(t, RiskUnknown, result.RiskLevel)
	assert.True(t, result.SeekMedicalAttention, "failures must default to recommending care")
	assert.Empty(t, result.PossibleConditions)
	assert.Len(t, result.MedicalSources, 2)
}
