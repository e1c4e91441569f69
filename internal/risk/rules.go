package risk

import (
	"fmt"
	"time"

	"kontra/internal/facet"
)

// Aggregator evaluates the fixed check sequence. The goal is to keep the
// rules centralized and testable.
type Aggregator struct {
	thresholds Thresholds
	now        func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithThresholds replaces the default cutoffs.
func WithThresholds(t Thresholds) Option {
	return func(a *Aggregator) { a.thresholds = t }
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		thresholds: DefaultThresholds(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// check evaluates one aspect of the company and reports its factor plus the
// tier it forces, with TierLow meaning no contribution.
type check func(t Thresholds, c facet.Company, now time.Time) (Factor, Tier)

// Checks run in a fixed order so the factor list reads the same way in every
// report. Overall tier is a fold-max over the contributions, so the order
// cannot change the outcome.
var checks = []check{
	checkStatus,
	checkAge,
	checkDirector,
	checkAddress,
	checkEnforcement,
	checkLitigation,
}

// Evaluate runs every check and folds the overall tier.
func (a *Aggregator) Evaluate(c facet.Company) Report {
	now := a.now().UTC()

	factors := make([]Factor, 0, len(checks))
	tier := TierLow
	for _, check := range checks {
		factor, contribution := check(a.thresholds, c, now)
		factors = append(factors, factor)
		tier = maxTier(tier, contribution)
	}

	return Report{
		Company:     c,
		Factors:     factors,
		Tier:        tier,
		DisplayTier: displayTier(tier, c.Rating.Level),
		GeneratedAt: now,
	}
}

// displayTier applies the provider's own categorical rating when it gave one.
// The per-factor breakdown still reflects the local computation.
func displayTier(computed Tier, rating facet.RatingLevel) Tier {
	switch rating {
	case facet.RatingLow:
		return TierLow
	case facet.RatingMedium:
		return TierMedium
	case facet.RatingHigh:
		return TierHigh
	default:
		return computed
	}
}

func checkStatus(_ Thresholds, c facet.Company, _ time.Time) (Factor, Tier) {
	switch c.Card.Status {
	case facet.StatusActive:
		return Factor{SeverityOK, "Статус", "компания действующая"}, TierLow
	case facet.StatusLiquidated:
		detail := "компания ликвидирована или прекратила деятельность"
		if c.Card.StatusText != "" {
			detail = c.Card.StatusText
		}
		return Factor{SeverityCritical, "Статус", detail}, TierHigh
	case facet.StatusOther:
		return Factor{SeverityWarning, "Статус", c.Card.StatusText}, TierMedium
	default:
		return Factor{SeverityCaution, "Статус", "статус в реестре не определён"}, TierLow
	}
}

func checkAge(t Thresholds, c facet.Company, now time.Time) (Factor, Tier) {
	years := companyAge(c.Card.RegisteredAt, now)
	switch {
	case years < 0:
		return Factor{SeverityCaution, "Возраст", "дата регистрации неизвестна"}, TierLow
	case years < t.YoungCompanyYears:
		return Factor{SeverityWarning, "Возраст", fmt.Sprintf("компания зарегистрирована менее %d лет назад", t.YoungCompanyYears)}, TierMedium
	case years >= t.MatureCompanyYears:
		return Factor{SeverityOK, "Возраст", fmt.Sprintf("на рынке %d лет и более", t.MatureCompanyYears)}, TierLow
	default:
		// Between the cutoffs the age is flagged but does not move the tier.
		return Factor{SeverityCaution, "Возраст", fmt.Sprintf("на рынке от %d до %d лет", t.YoungCompanyYears, t.MatureCompanyYears)}, TierLow
	}
}

func checkDirector(_ Thresholds, c facet.Company, _ time.Time) (Factor, Tier) {
	if c.Card.DirectorName == "" {
		return Factor{SeverityCaution, "Руководитель", "сведения о руководителе отсутствуют"}, TierLow
	}
	return Factor{SeverityOK, "Руководитель", c.Card.DirectorName}, TierLow
}

func checkAddress(_ Thresholds, c facet.Company, _ time.Time) (Factor, Tier) {
	if c.Card.Address == "" {
		return Factor{SeverityCaution, "Адрес", "юридический адрес не указан в реестре"}, TierLow
	}
	return Factor{SeverityOK, "Адрес", "юридический адрес указан"}, TierLow
}

func checkEnforcement(t Thresholds, c facet.Company, _ time.Time) (Factor, Tier) {
	enf := c.Enforcement
	switch {
	case enf.TotalClaim > t.EnforcementHighClaim:
		detail := fmt.Sprintf("исполнительные производства: %d, общая сумма %.0f", enf.Count, enf.TotalClaim)
		return Factor{SeverityCritical, "Исполнительные производства", detail}, TierHigh
	case enf.Count > 0:
		detail := fmt.Sprintf("исполнительные производства: %d, общая сумма %.0f", enf.Count, enf.TotalClaim)
		return Factor{SeverityWarning, "Исполнительные производства", detail}, TierMedium
	default:
		return Factor{SeverityOK, "Исполнительные производства", "не найдены"}, TierLow
	}
}

func checkLitigation(t Thresholds, c facet.Company, _ time.Time) (Factor, Tier) {
	lit := c.Litigation
	switch {
	case lit.AsDefendant > t.DefendantHighCount:
		detail := fmt.Sprintf("ответчик в %d судебных делах", lit.AsDefendant)
		return Factor{SeverityCritical, "Судебные дела", detail}, TierHigh
	case lit.AsDefendant > 0:
		detail := fmt.Sprintf("ответчик в %d судебных делах", lit.AsDefendant)
		return Factor{SeverityWarning, "Судебные дела", detail}, TierMedium
	case lit.Total > 0:
		detail := fmt.Sprintf("участвует в %d судебных делах, не в роли ответчика", lit.Total)
		return Factor{SeverityOK, "Судебные дела", detail}, TierLow
	default:
		return Factor{SeverityOK, "Судебные дела", "не найдены"}, TierLow
	}
}

// companyAge mirrors the facet package's whole-year arithmetic without
// importing its unexported helper.
func companyAge(from, now time.Time) int {
	if from.IsZero() {
		return -1
	}
	if now.Before(from) {
		return 0
	}
	years := now.Year() - from.Year()
	if from.AddDate(years, 0, 0).After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
