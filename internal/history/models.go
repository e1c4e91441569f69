// Package history keeps the per-user trail of completed checks and the
// favorites list. Only the (tax ID, name, tier, timestamp) tuple of a report
// survives here.
package history

import (
	"time"

	"kontra/internal/risk"
	"kontra/pkg/domain"
)

// Entry is one completed check.
type Entry struct {
	UserID      domain.UserID
	TaxID       domain.TaxID
	CompanyName string
	Tier        risk.Tier
	CheckedAt   time.Time
}

// Favorite is a company pinned by the user for quick rechecks.
type Favorite struct {
	UserID      domain.UserID
	TaxID       domain.TaxID
	CompanyName string
	AddedAt     time.Time
}

// UserStats is the per-user counters for the profile view.
type UserStats struct {
	TotalChecks int
	TodayChecks int
}

// GlobalStats is the admin counters across all users.
type GlobalStats struct {
	TotalChecks int
	TodayChecks int
}

// Default page size for history listings.
const defaultListLimit = 10
