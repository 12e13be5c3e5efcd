package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-triage-server/internal/catalog"
	"github.com/symptom-triage-server/internal/domain"
)

func newTestAnalyzer() *RuleBasedAnalyzer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewRuleBasedAnalyzer(logger, catalog.Default(), NewSeededSampler(42))
}

func TestAnalyzeCommonColdScenario(t *testing.T) {
	analyzer := newTestAnalyzer()

	result := analyzer.Analyze(context.Background(), &domain.AnalysisRequest{
		Symptoms: []string{"Fever", "Cough", "Congestion", "Runny nose"},
		Age:      30,
		Gender:   "Female",
		Duration: domain.DurationDays,
		Severity: domain.SeverityMild,
	})

	require.False(t, result.Error)
	require.NotEmpty(t, result.PossibleConditions)
	assert.Equal(t, "Common Cold", result.PossibleConditions[0].Name,
		"cold has the best coverage+relevance for these symptoms")

	// Four of six cold symptoms covered and all complaints explained puts
	// the best score above 0.7, so base points are 3: tier is moderate.
	assert.Equal(t, domain.RiskModerate, result.RiskLevel)
	assert.False(t, result.SeekMedicalAttention)
	assert.Contains(t, result.GeneralAdvice, "humidifier", "respiratory advice expected")
	assert.Contains(t, result.GeneralAdvice, "DISCLAIMER")
}

func TestAnalyzeCovidScenario(t *testing.T) {
	analyzer := newTestAnalyzer()

	result := analyzer.Analyze(context.Background(), &domain.AnalysisRequest{
		Symptoms: []string{"Fever", "Cough", "Shortness of breath", "Fatigue", "Loss of taste or smell"},
		Age:      70,
		Gender:   "Male",
		Duration: domain.DurationWeeks,
		Severity: domain.SeveritySevere,
	})

	require.False(t, result.Error)
	require.NotEmpty(t, result.PossibleConditions)
	assert.Equal(t, "COVID-19", result.PossibleConditions[0].Name)
	assert.Equal(t, domain.RiskHigh, result.RiskLevel, "age over 65 plus severe severity")
	assert.True(t, result.SeekMedicalAttention)
}

func TestAnalyzeNoCatalogMatch(t *testing.T) {
	analyzer := newTestAnalyzer()

	result := analyzer.Analyze(context.Background(), &domain.AnalysisRequest{
		Symptoms: []string{"Unrecognized symptom"},
		Age:      30,
		Gender:   "Other",
		Duration: domain.DurationHours,
		Severity: domain.SeverityMild,
	})

	require.False(t, result.Error)
	assert.Empty(t, result.PossibleConditions)
	assert.Equal(t, domain.RiskLow, result.RiskLevel, "no match defaults directly to low")
	assert.False(t, result.SeekMedicalAttention)

	// Severity and duration rules still apply on the no-match path.
	severe := analyzer.Analyze(context.Background(), &domain.AnalysisRequest{
		Symptoms: []string{"Unrecognized symptom"},
		Age:      30,
		Duration: domain.DurationHours,
		Severity: domain.SeveritySevere,
	})
	assert.True(t, severe.SeekMedicalAttention)
}

func TestAnalyzeEmptySymptoms(t *testing.T) {
	analyzer := newTestAnalyzer()

	result := analyzer.Analyze(context.Background(), &domain.AnalysisRequest{
		Symptoms: []string{},
		Age:      30,
		Duration: domain.DurationDays,
		Severity: domain.SeverityMild,
	})

	require.NotNil(t, result)
	require.False(t, result.Error, "empty symptom set must not fail the analysis")
	assert.Empty(t, result.PossibleConditions)
	assert.Equal(t, domain.RiskLow, result.RiskLevel)
	assert.Contains(t, result.GeneralAdvice, "balanced diet", "general advice is the fallback")
}

func TestAnalyzeCandidateListCappedAndSorted(t *testing.T) {
	analyzer := newTestAnalyzer()

	// Fatigue appears in six catalog entries; the list must cap at five.
	result := analyzer.Analyze(context.Background(), &domain.AnalysisRequest{
		Symptoms: []string{"Fatigue"},
		Age:      30,
		Duration: domain.DurationDays,
		Severity: domain.SeverityMild,
	})

	require.False(t, result.Error)
	assert.LessOrEqual(t, len(result.PossibleConditions), 5)
	assert.Len(t, result.PossibleConditions, 5)
}

func TestAnalyzeMedicalSources(t *testing.T) {
	analyzer := newTestAnalyzer()

	for i := 0; i < 20; i++ {
		result := analyzer.Analyze(context.Background(), &domain.AnalysisRequest{
			Symptoms: []string{"Fever"},
			Age:      30,
			Duration: domain.DurationDays,
			Severity: domain.SeverityMild,
		})

		require.LessOrEqual(t, len(result.MedicalSources), 3)
		require.Len(t, result.MedicalSources, 3, "pool has six entries, sample is three")

		seen := make(map[string]bool)
		for _, s := range result.MedicalSources {
			assert.False(t, seen[s], "sources must be sampled without replacement")
			seen[s] = true
		}
	}
}

func TestAnalyzeNilRequest(t *testing.T) {
	analyzer := newTestAnalyzer()

	result := analyzer.Analyze(context.Background(), nil)

	require.NotNil(t, result)
	assert.True(t, result.Error)
	assert.Equal(t, domain.RiskUnknown, result.RiskLevel)
	assert.True(t, result.SeekMedicalAttention)
	assert.True(t, strings.HasPrefix(result.Message, "Error analyzing symptoms"))
}

func TestAnalyzeGenderNotConsumed(t *testing.T) {
	analyzer := newTestAnalyzer()

	base := &domain.AnalysisRequest{
		Symptoms: []string{"Fever", "Cough"},
		Age:      30,
		Duration: domain.DurationDays,
		Severity: domain.SeverityMild,
	}

	for _, gender := range []string{"Male", "Female", "Other", ""} {
		req := *base
		req.Gender = gender
		result := analyzer.Analyze(context.Background(), &req)
		assert.Equal(t, domain.RiskModerate, result.RiskLevel,
			"gender %q must not change the outcome", gender)
	}
}

func TestSamplerSampleSemantics(t *testing.T) {
	sampler := NewSeededSampler(7)
	pool := []string{"a", "b"}

	sample := sampler.Sample(pool, 3)
	assert.Len(t, sample, 2, "sample size is capped by the pool")

	empty := sampler.Sample(nil, 3)
	assert.Empty(t, empty)
}
