// Package billing sells premium subscriptions through the payment provider.
// A payment is created with a fixed tariff, confirmed by the user out of
// band, and applied to the quota state exactly once when it succeeds.
package billing

import (
	"time"

	"kontra/pkg/domain"
)

// Tariff is one purchasable subscription span.
type Tariff struct {
	Code        string
	Amount      string // decimal string, the provider's wire format
	Description string
	Days        int
}

// Tariffs in display order.
var Tariffs = []Tariff{
	{Code: "week", Amount: "199.00", Description: "Подписка на 1 неделю", Days: 7},
	{Code: "month", Amount: "499.00", Description: "Подписка на 1 месяц", Days: 30},
	{Code: "3months", Amount: "1199.00", Description: "Подписка на 3 месяца", Days: 90},
	{Code: "year", Amount: "3499.00", Description: "Подписка на 1 год", Days: 365},
}

// TariffByCode returns the tariff and whether it exists.
func TariffByCode(code string) (Tariff, bool) {
	for _, t := range Tariffs {
		if t.Code == code {
			return t, true
		}
	}
	return Tariff{}, false
}

// Status mirrors the provider's payment lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusWaiting   Status = "waiting_for_capture"
	StatusSucceeded Status = "succeeded"
	StatusCanceled  Status = "canceled"
)

// Payment is the local record of one provider payment.
type Payment struct {
	ID              string // provider payment id
	UserID          domain.UserID
	Tariff          string
	Amount          string
	Status          Status
	ConfirmationURL string
	Applied         bool // premium already granted for this payment
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
