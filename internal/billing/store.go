package billing

import (
	"context"

	"kontra/pkg/domain"
)

// Store persists payment records. MarkApplied must be atomic: of two
// concurrent attempts to apply the same succeeded payment, exactly one wins.
type Store interface {
	Save(ctx context.Context, p Payment) error
	Get(ctx context.Context, id string) (Payment, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// MarkApplied flips Applied from false to true and reports whether this
	// call did the flip.
	MarkApplied(ctx context.Context, id string) (bool, error)

	ListByUser(ctx context.Context, userID domain.UserID) ([]Payment, error)
}
