package quota

import (
	"context"
	"time"

	"kontra/pkg/domain"
)

// Store persists per-user quota state. ConsumeCheck must be atomic: two
// concurrent calls for the same user may never both succeed on a single
// remaining check.
type Store interface {
	// GetOrCreate returns the user, creating it with freeChecks on first sight.
	GetOrCreate(ctx context.Context, id domain.UserID, freeChecks int) (User, error)

	// ConsumeCheck decrements the free allowance if any remains and reports
	// whether it did.
	ConsumeCheck(ctx context.Context, id domain.UserID) (bool, error)

	// SetPremium marks the user premium until the given time.
	SetPremium(ctx context.Context, id domain.UserID, until time.Time) error

	// AddChecks tops up the free allowance.
	AddChecks(ctx context.Context, id domain.UserID, n int) error

	// CountUsers reports the total number of known users.
	CountUsers(ctx context.Context) (int, error)
}
