// Package quota decides whether a caller may run a company check. Every new
// user starts with a small free allowance; premium subscribers and admins
// bypass it.
package quota

import (
	"time"

	"kontra/pkg/domain"
)

// User is the per-caller quota state.
type User struct {
	ID           domain.UserID
	ChecksLeft   int
	IsPremium    bool
	PremiumUntil time.Time
	CreatedAt    time.Time
}

// PremiumActive reports whether a premium subscription is in force at now.
// A zero PremiumUntil on a premium user means no expiry.
func (u User) PremiumActive(now time.Time) bool {
	if !u.IsPremium {
		return false
	}
	return u.PremiumUntil.IsZero() || u.PremiumUntil.After(now)
}

// Grant explains why a check was allowed, for logging and the /me view.
type Grant string

const (
	GrantAdmin     Grant = "admin"
	GrantPremium   Grant = "premium"
	GrantFreeCheck Grant = "free_check"
)
