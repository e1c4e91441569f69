// Package facet normalizes raw registry fragments into stable internal
// records. Parsers are pure functions over a provider.Bundle: they never
// error, every field has a defined default, and facets the provider omitted
// come back as zero values with HasData false where absence matters.
package facet

import "time"

// OperatingStatus is the normalized registration state of a company.
type OperatingStatus string

const (
	StatusActive     OperatingStatus = "active"
	StatusLiquidated OperatingStatus = "liquidated"
	StatusOther      OperatingStatus = "other"
	StatusUnknown    OperatingStatus = "unknown"
)

// CompanyCard is the registration-card facet. Immutable after parsing; only
// the (tax ID, name, tier, timestamp) tuple survives into history.
type CompanyCard struct {
	Name       string
	FullName   string
	TaxID      string
	RegNumber  string // state registration number (ОГРН)
	TaxRegCode string // tax registration code (КПП)

	Status     OperatingStatus
	StatusText string // provider's original wording, for display

	RegisteredAt time.Time // zero when the registry gave no parseable date
	Address      string

	DirectorName  string
	DirectorTaxID string
	DirectorSince time.Time

	IndustryCode string
	IndustryName string

	Capital   float64
	Employees int
}

// DisplayName prefers the short legal name, falling back to the full one.
func (c CompanyCard) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.FullName
}

// FinancialSummary is the latest-year filing from the tax authority. HasData
// distinguishes "no filing" from a filing of zeros.
type FinancialSummary struct {
	HasData    bool
	Year       int
	Revenue    float64
	NetProfit  float64
	TaxesPaid  float64
	TaxArrears float64
	Employees  int
}

// EnforcementItem is one enforcement proceeding sample line.
type EnforcementItem struct {
	Subject string
	Amount  float64
}

// EnforcementSummary aggregates enforcement proceedings. Items holds at most
// enforcementSampleLimit entries; Count is the true total.
type EnforcementSummary struct {
	Count      int
	TotalClaim float64
	Items      []EnforcementItem
}

// LitigationCase is one court case sample line.
type LitigationCase struct {
	Number string
	Status string
}

// LitigationSummary aggregates court cases by role. Cases holds at most
// litigationSampleLimit entries; the counts are true totals.
type LitigationSummary struct {
	Total       int
	AsPlaintiff int
	AsDefendant int
	Cases       []LitigationCase
}

// AffiliateRecord is a company sharing the queried company's director.
type AffiliateRecord struct {
	Name         string
	TaxID        string
	Status       string
	Address      string
	IndustryCode string
}

// AffiliateList keeps the true count separately from the display-bounded
// slice: risk scoring needs the former, reports the latter.
type AffiliateList struct {
	Total     int
	Companies []AffiliateRecord
}

// RatingLevel is the provider's own categorical risk assessment.
type RatingLevel string

const (
	RatingUnknown RatingLevel = ""
	RatingLow     RatingLevel = "low"
	RatingMedium  RatingLevel = "medium"
	RatingHigh    RatingLevel = "high"
)

// RatingSummary is the provider's proprietary scoring facet.
type RatingSummary struct {
	Index            string // lettered reliability index, e.g. "A+"
	ReliabilityPoint float64
	Level            RatingLevel
	LevelText        string // provider's original wording
	TaxBurden        string
	StopFactor       bool
}

// HasData reports whether the provider returned any rating at all.
func (r RatingSummary) HasData() bool {
	return r.Index != "" || r.Level != RatingUnknown || r.ReliabilityPoint != 0
}

// ContactInfo carries deduplicated, display-bounded contact channels.
type ContactInfo struct {
	HasData  bool
	Phones   []string
	Emails   []string
	Websites []string
}

// Company is the full normalized bundle for one lookup.
type Company struct {
	Card        CompanyCard
	Finances    FinancialSummary
	Enforcement EnforcementSummary
	Litigation  LitigationSummary
	Affiliates  AffiliateList
	Rating      RatingSummary
	Contacts    ContactInfo
}

// Display bounds. The true counts always survive beside the truncated slices.
const (
	enforcementSampleLimit = 5
	litigationSampleLimit  = 5
	affiliateDisplayLimit  = 10
	phoneDisplayLimit      = 3
	emailDisplayLimit      = 2
	websiteDisplayLimit    = 2
)
