// Package service implements the rule-based symptom analysis strategy: a
// deterministic, explainable scoring procedure over a static condition
// catalog. It is one of two interchangeable implementations of the
// domain.Analyzer contract; the other is the LLM-backed strategy in
// internal/llm.
package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/catalog"
	"github.com/symptom-triage-server/internal/domain"
)

// sourceSampleSize is how many citation sources each result carries, pool
// permitting.
const sourceSampleSize = 3

// RuleBasedAnalyzer scores triage inputs against the condition catalog
// without any external dependency. It holds no mutable state across calls
// and is safe for concurrent use.
type RuleBasedAnalyzer struct {
	logger  *logrus.Logger
	catalog *catalog.Catalog
	sampler Sampler
}

// NewRuleBasedAnalyzer creates the rule-based analysis strategy. A nil
// sampler falls back to the production random sampler.
func NewRuleBasedAnalyzer(logger *logrus.Logger, cat *catalog.Catalog, sampler Sampler) *RuleBasedAnalyzer {
	if sampler == nil {
		sampler = NewSampler()
	}
	return &RuleBasedAnalyzer{
		logger:  logger,
		catalog: cat,
		sampler: sampler,
	}
}

// Analyze runs the full triage pipeline: match, risk estimation, attention
// recommendation, advice selection, and result assembly. It never returns a
// Go error; any internal failure collapses to the fail-safe result, which
// reports unknown risk and recommends medical attention.
func (a *RuleBasedAnalyzer) Analyze(ctx context.Context, req *domain.AnalysisRequest) (result *domain.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithField("panic", r).Error("Symptom analysis failed")
			result = domain.NewFailSafeResult(fmt.Sprintf("Error analyzing symptoms: %v", r))
		}
	}()

	if req == nil {
		return domain.NewFailSafeResult("Error analyzing symptoms: missing request")
	}

	a.logger.WithFields(logrus.Fields{
		"symptom_count": len(req.Symptoms),
		"age":           req.Age,
		"severity":      req.Severity,
		"duration":      req.Duration,
	}).Info("Starting rule-based symptom analysis")

	matches := rankConditions(req.Symptoms, a.catalog.Conditions())

	// No candidate matches at all: risk defaults directly to low and the
	// point system is skipped. Attention then depends solely on severity
	// and duration.
	risk := domain.RiskLow
	if len(matches) > 0 {
		risk = estimateRisk(matches[0].score, req.Severity, req.Age)
	}

	seekAttention := shouldSeekAttention(risk, req.Severity, req.Duration)

	category := adviceCategory(req.Symptoms, a.catalog.Categories())
	advice := a.catalog.Advice(category) + "\n\n" + catalog.Disclaimer

	conditions := make([]domain.PossibleCondition, 0, len(matches))
	for _, m := range matches {
		conditions = append(conditions, domain.PossibleCondition{
			Name:                m.entry.Name,
			Description:         m.entry.Description,
			CommonSymptoms:      m.entry.CommonSymptoms,
			DietRecommendations: m.entry.DietRecommendations,
		})
	}

	sources := a.sampler.Sample(a.catalog.Sources(), sourceSampleSize)

	a.logger.WithFields(logrus.Fields{
		"candidates":      len(conditions),
		"risk_level":      risk,
		"seek_attention":  seekAttention,
		"advice_category": category,
	}).Info("Completed rule-based symptom analysis")

	return &domain.AnalysisResult{
		PossibleConditions:   conditions,
		RiskLevel:            risk,
		SeekMedicalAttention: seekAttention,
		GeneralAdvice:        advice,
		MedicalSources:       sources,
	}
}
