package service

import (
	"sort"

	"github.com/symptom-triage-server/internal/catalog"
	"github.com/symptom-triage-server/internal/domain"
)

// Weighting of the two match components. Coverage dominates because a
// condition whose known symptoms are mostly present is a stronger candidate
// than one that merely explains a few of the user's complaints.
const (
	coverageWeight  = 0.7
	relevanceWeight = 0.3
)

// maxCandidates caps the ranked condition list in the final result.
const maxCandidates = 5

// conditionMatch pairs a catalog entry with its match score.
type conditionMatch struct {
	entry domain.ConditionEntry
	score float64
}

// matchScore scores the user's symptoms against one condition's symptom set.
//
//	coverage  = matched / len(conditionSymptoms)
//	relevance = matched / len(userSymptoms)
//	score     = 0.7*coverage + 0.3*relevance
//
// Symptoms match by exact string equality. An empty condition symptom set
// scores 0, and an empty user set contributes 0 relevance; neither divides
// by zero.
func matchScore(userSymptoms, conditionSymptoms []string) float64 {
	if len(conditionSymptoms) == 0 {
		return 0
	}

	known := make(map[string]struct{}, len(conditionSymptoms))
	for _, s := range conditionSymptoms {
		known[s] = struct{}{}
	}

	matched := 0
	for _, s := range userSymptoms {
		if _, ok := known[s]; ok {
			matched++
		}
	}

	coverage := float64(matched) / float64(len(conditionSymptoms))
	relevance := 0.0
	if len(userSymptoms) > 0 {
		relevance = float64(matched) / float64(len(userSymptoms))
	}

	return coverageWeight*coverage + relevanceWeight*relevance
}

// rankConditions scores every catalog entry, drops zero scores, and returns
// the top candidates sorted by descending score. The sort is stable so equal
// scores keep catalog declaration order.
func rankConditions(userSymptoms []string, conditions []domain.ConditionEntry) []conditionMatch {
	matches := make([]conditionMatch, 0, len(conditions))
	for _, entry := range conditions {
		score := matchScore(userSymptoms, entry.CommonSymptoms)
		if score > 0 {
			matches = append(matches, conditionMatch{entry: entry, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > maxCandidates {
		matches = matches[:maxCandidates]
	}
	return matches
}

// estimateRisk combines the best match score, reported severity, and age
// into a discrete risk tier using an ordinal point system. Every factor and
// its weight is inspectable, which is the point: this is an explainable
// triage aid, not a trained classifier.
func estimateRisk(bestMatchScore float64, severity domain.Severity, age int) domain.RiskLevel {
	base := 1
	switch {
	case bestMatchScore > 0.7:
		base = 3
	case bestMatchScore > 0.4:
		base = 2
	}

	agePoints := 0
	if age < 5 || age > 65 {
		agePoints = 1
	}

	total := base + severity.Points() + agePoints

	switch {
	case total >= 4:
		return domain.RiskHigh
	case total >= 2:
		return domain.RiskModerate
	default:
		return domain.RiskLow
	}
}

// shouldSeekAttention decides whether to recommend seeking care. Rules are
// evaluated in order, first true wins: high risk alone suffices, severe
// severity alone suffices, and a prolonged moderate case is escalated
// because a moderate symptom persisting for months is more concerning than
// one lasting hours.
func shouldSeekAttention(risk domain.RiskLevel, severity domain.Severity, duration domain.Duration) bool {
	if risk == domain.RiskHigh {
		return true
	}
	if severity == domain.SeveritySevere {
		return true
	}
	if severity == domain.SeverityModerate && duration.IsProlonged() {
		return true
	}
	return false
}

// adviceCategory determines which body-system category the symptoms
// primarily affect. The category with the strictly highest representative
// symptom count wins; ties fall to the earlier category in the catalog's
// declared order, and an all-zero count yields the general category.
func adviceCategory(userSymptoms []string, categories []catalog.Category) string {
	best := catalog.GeneralCategory
	bestCount := 0

	for _, category := range categories {
		represented := make(map[string]struct{}, len(category.Symptoms))
		for _, s := range category.Symptoms {
			represented[s] = struct{}{}
		}

		count := 0
		for _, s := range userSymptoms {
			if _, ok := represented[s]; ok {
				count++
			}
		}

		if count > bestCount {
			best = category.Name
			bestCount = count
		}
	}

	return best
}
