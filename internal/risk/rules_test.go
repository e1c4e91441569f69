package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kontra/internal/facet"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newAggregator(opts ...Option) *Aggregator {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(opts...)
}

func activeCompany() facet.Company {
	return facet.Company{
		Card: facet.CompanyCard{
			Name:         "ООО Ромашка",
			Status:       facet.StatusActive,
			RegisteredAt: fixedNow.AddDate(-10, 0, 0),
			Address:      "г. Москва",
			DirectorName: "Иванов И.И.",
		},
	}
}

func factorByLabel(t *testing.T, r Report, label string) Factor {
	t.Helper()
	for _, f := range r.Factors {
		if f.Label == label {
			return f
		}
	}
	t.Fatalf("no factor labeled %q", label)
	return Factor{}
}

func TestEvaluate_CleanCompanyIsLow(t *testing.T) {
	report := newAggregator().Evaluate(activeCompany())

	assert.Equal(t, TierLow, report.Tier)
	assert.Equal(t, TierLow, report.DisplayTier)
	assert.Len(t, report.Factors, 6)
	for _, f := range report.Factors {
		assert.NotEqual(t, SeverityCritical, f.Severity, f.Label)
	}
}

func TestEvaluate_EmptyBundleIsLow(t *testing.T) {
	report := newAggregator().Evaluate(facet.Company{})

	assert.Equal(t, TierLow, report.Tier)
	status := factorByLabel(t, report, "Статус")
	assert.Equal(t, SeverityCaution, status.Severity)
}

func TestEvaluate_LiquidatedForcesHigh(t *testing.T) {
	c := activeCompany()
	c.Card.Status = facet.StatusLiquidated
	c.Card.StatusText = "Ликвидировано"

	report := newAggregator().Evaluate(c)

	assert.Equal(t, TierHigh, report.Tier)
	status := factorByLabel(t, report, "Статус")
	assert.Equal(t, SeverityCritical, status.Severity)
	assert.Equal(t, "Ликвидировано", status.Detail)
}

func TestEvaluate_EnforcementOverThreshold(t *testing.T) {
	c := activeCompany()
	c.Enforcement = facet.EnforcementSummary{Count: 2, TotalClaim: 600_000}

	report := newAggregator().Evaluate(c)

	factor := factorByLabel(t, report, "Исполнительные производства")
	assert.Equal(t, SeverityCritical, factor.Severity)
	assert.Equal(t, TierHigh, report.Tier)
}

func TestEvaluate_EnforcementUnderThreshold(t *testing.T) {
	c := activeCompany()
	c.Enforcement = facet.EnforcementSummary{Count: 1, TotalClaim: 10_000}

	report := newAggregator().Evaluate(c)

	factor := factorByLabel(t, report, "Исполнительные производства")
	assert.Equal(t, SeverityWarning, factor.Severity)
	assert.Equal(t, TierMedium, report.Tier)
}

func TestEvaluate_DefendantCountOverThreshold(t *testing.T) {
	c := activeCompany()
	c.Litigation = facet.LitigationSummary{Total: 6, AsDefendant: 6}

	report := newAggregator().Evaluate(c)

	factor := factorByLabel(t, report, "Судебные дела")
	assert.Equal(t, SeverityCritical, factor.Severity)
	assert.Equal(t, TierHigh, report.Tier)
}

func TestEvaluate_DefendantCountModerate(t *testing.T) {
	c := activeCompany()
	c.Litigation = facet.LitigationSummary{Total: 3, AsDefendant: 2, AsPlaintiff: 1}

	report := newAggregator().Evaluate(c)

	assert.Equal(t, SeverityWarning, factorByLabel(t, report, "Судебные дела").Severity)
	assert.Equal(t, TierMedium, report.Tier)
}

func TestEvaluate_PlaintiffOnlyIsOK(t *testing.T) {
	c := activeCompany()
	c.Litigation = facet.LitigationSummary{Total: 4, AsPlaintiff: 4}

	report := newAggregator().Evaluate(c)

	assert.Equal(t, SeverityOK, factorByLabel(t, report, "Судебные дела").Severity)
	assert.Equal(t, TierLow, report.Tier)
}

func TestEvaluate_CompanyAge(t *testing.T) {
	tests := []struct {
		name         string
		registeredAt time.Time
		severity     Severity
		tier         Tier
	}{
		{"young company raises medium", fixedNow.AddDate(-1, 0, 0), SeverityWarning, TierMedium},
		{"mid-age company is informational", fixedNow.AddDate(-3, 0, 0), SeverityCaution, TierLow},
		{"mature company is positive", fixedNow.AddDate(-8, 0, 0), SeverityOK, TierLow},
		{"unknown registration date", time.Time{}, SeverityCaution, TierLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := activeCompany()
			c.Card.RegisteredAt = tt.registeredAt

			report := newAggregator().Evaluate(c)

			assert.Equal(t, tt.severity, factorByLabel(t, report, "Возраст").Severity)
			assert.Equal(t, tt.tier, report.Tier)
		})
	}
}

// Monotonicity: the overall tier never drops below the tier forced by the
// single most severe tier-determining factor, no matter what else is present.
func TestEvaluate_TierMonotonicity(t *testing.T) {
	c := activeCompany()
	c.Card.Status = facet.StatusLiquidated
	c.Enforcement = facet.EnforcementSummary{Count: 1, TotalClaim: 100}
	c.Litigation = facet.LitigationSummary{Total: 1, AsDefendant: 1}

	report := newAggregator().Evaluate(c)

	assert.Equal(t, TierHigh, report.Tier)

	var worst Tier = TierLow
	for _, f := range report.Factors {
		if f.Severity == SeverityCritical {
			worst = TierHigh
		}
	}
	require.Equal(t, worst, TierHigh)
	assert.GreaterOrEqual(t, tierRank(report.Tier), tierRank(worst))
}

func TestEvaluate_ProviderRatingOverridesDisplayOnly(t *testing.T) {
	t.Run("rating raises display", func(t *testing.T) {
		c := activeCompany()
		c.Rating = facet.RatingSummary{Level: facet.RatingHigh, LevelText: "Высокий"}

		report := newAggregator().Evaluate(c)

		assert.Equal(t, TierLow, report.Tier)
		assert.Equal(t, TierHigh, report.DisplayTier)
	})

	t.Run("rating lowers display", func(t *testing.T) {
		c := activeCompany()
		c.Enforcement = facet.EnforcementSummary{Count: 2, TotalClaim: 600_000}
		c.Rating = facet.RatingSummary{Level: facet.RatingLow, LevelText: "Низкий"}

		report := newAggregator().Evaluate(c)

		assert.Equal(t, TierHigh, report.Tier)
		assert.Equal(t, TierLow, report.DisplayTier)
	})

	t.Run("absent rating keeps computed tier", func(t *testing.T) {
		report := newAggregator().Evaluate(activeCompany())
		assert.Equal(t, report.Tier, report.DisplayTier)
	})
}

func TestEvaluate_CustomThresholds(t *testing.T) {
	thresholds := DefaultThresholds()
	thresholds.DefendantHighCount = 3

	c := activeCompany()
	c.Litigation = facet.LitigationSummary{Total: 4, AsDefendant: 4}

	report := newAggregator(WithThresholds(thresholds)).Evaluate(c)

	assert.Equal(t, SeverityCritical, factorByLabel(t, report, "Судебные дела").Severity)
	assert.Equal(t, TierHigh, report.Tier)
}

func TestMaxTier(t *testing.T) {
	assert.Equal(t, TierHigh, maxTier(TierMedium, TierHigh))
	assert.Equal(t, TierHigh, maxTier(TierHigh, TierLow))
	assert.Equal(t, TierMedium, maxTier(TierLow, TierMedium))
	assert.Equal(t, TierLow, maxTier(TierLow, TierLow))
}
