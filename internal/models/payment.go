package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentSucceeded  PaymentStatus = "SUCCEEDED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

// A failed intent can still be retried by the customer, so FAILED may move
// on to SUCCEEDED. A late processing notice never reopens a terminal status,
// and SUCCEEDED is only left through a refund.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:    {PaymentProcessing, PaymentSucceeded, PaymentFailed},
	PaymentProcessing: {PaymentSucceeded, PaymentFailed},
	PaymentFailed:     {PaymentSucceeded},
	PaymentSucceeded:  {PaymentRefunded},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reusable reports whether the payment's intent can still be handed back to
// the client instead of creating a new one.
func (s PaymentStatus) Reusable() bool {
	return s == PaymentPending || s == PaymentProcessing || s == PaymentFailed
}

type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:p"`

	ID                string        `json:"id" bun:"id,pk"`
	BookingID         string        `json:"bookingId" bun:"booking_id,notnull,unique"`
	Amount            float64       `json:"amount" bun:"amount,notnull"`
	Currency          string        `json:"currency" bun:"currency,notnull"`
	Status            PaymentStatus `json:"status" bun:"status,notnull"`
	ProviderPaymentID string        `json:"stripePaymentId" bun:"provider_payment_id,nullzero,unique"`
	ClientSecret      string        `json:"-" bun:"client_secret"`
	CreatedAt         time.Time     `json:"createdAt" bun:"created_at,notnull"`
	UpdatedAt         time.Time     `json:"updatedAt" bun:"updated_at,notnull"`
}

// PaymentIntentResult is returned to the browser to complete checkout.
type PaymentIntentResult struct {
	ClientSecret string `json:"clientSecret"`
	PaymentID    string `json:"paymentId"`
}

// PaymentStatusesReaching lists every status allowed to move to target.
func PaymentStatusesReaching(target PaymentStatus) []PaymentStatus {
	var from []PaymentStatus
	for _, s := range []PaymentStatus{PaymentPending, PaymentProcessing, PaymentSucceeded, PaymentFailed, PaymentRefunded} {
		if s.CanTransitionTo(target) {
			from = append(from, s)
		}
	}
	return from
}
