// Package audit captures key user-visible actions for later inspection.
// Events flow through a buffered channel into a sink so domain code never
// blocks on audit persistence.
package audit

import (
	"time"

	"kontra/internal/risk"
	"kontra/pkg/domain"
)

// Action names an auditable operation.
type Action string

const (
	ActionCheckCompleted  Action = "check_completed"
	ActionCheckNotFound   Action = "check_not_found"
	ActionCheckDenied     Action = "check_denied"
	ActionDocumentExport  Action = "document_exported"
	ActionPaymentStarted  Action = "payment_started"
	ActionPaymentApplied  Action = "payment_applied"
	ActionFavoriteAdded   Action = "favorite_added"
	ActionFavoriteRemoved Action = "favorite_removed"
)

// Event is one audit record. Keep it transport-agnostic so stores and sinks
// can fan out.
type Event struct {
	Timestamp time.Time     `json:"timestamp"`
	UserID    domain.UserID `json:"user_id"`
	Action    Action        `json:"action"`
	TaxID     domain.TaxID  `json:"tax_id,omitempty"`
	Tier      risk.Tier     `json:"tier,omitempty"`
	Detail    string        `json:"detail,omitempty"`
}
