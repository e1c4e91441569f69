// Package risk turns a normalized company bundle into an ordered list of
// weighted risk factors and an overall tier. Evaluation is pure domain logic:
// no I/O, no side effects, and it never fails.
package risk

import (
	"time"

	"kontra/internal/facet"
)

// Severity grades a single risk factor.
type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityCaution  Severity = "caution"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Tier is the coarse overall classification, ordered low < medium < high.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

func tierRank(t Tier) int {
	switch t {
	case TierHigh:
		return 2
	case TierMedium:
		return 1
	default:
		return 0
	}
}

// maxTier folds two tiers, keeping the higher one.
func maxTier(a, b Tier) Tier {
	if tierRank(b) > tierRank(a) {
		return b
	}
	return a
}

// Factor is one evaluated risk check.
type Factor struct {
	Severity Severity
	Label    string
	Detail   string
}

// Report is the full aggregation result for one lookup. Tier is the locally
// computed fold-max over the factor contributions; DisplayTier is what the
// formatter shows, which the provider's own rating overrides when present.
type Report struct {
	Company facet.Company

	Factors     []Factor
	Tier        Tier
	DisplayTier Tier

	GeneratedAt time.Time
}

// Thresholds holds the numeric cutoffs for the tier-determining checks. The
// defendant-litigation cutoff varied between report revisions upstream, so it
// lives here instead of being inlined.
type Thresholds struct {
	EnforcementHighClaim float64
	DefendantHighCount   int
	YoungCompanyYears    int
	MatureCompanyYears   int
}

// DefaultThresholds are the cutoffs used in production.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EnforcementHighClaim: 500_000,
		DefendantHighCount:   5,
		YoungCompanyYears:    2,
		MatureCompanyYears:   5,
	}
}
