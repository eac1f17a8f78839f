package models

// Provider-neutral event types consumed by payment reconciliation.
const (
	EventPaymentSucceeded  = "payment_succeeded"
	EventPaymentFailed     = "payment_failed"
	EventPaymentProcessing = "payment_processing"
)

var stripeEventTypes = map[string]string{
	"payment_intent.succeeded":      EventPaymentSucceeded,
	"payment_intent.payment_failed": EventPaymentFailed,
	"payment_intent.processing":     EventPaymentProcessing,
}

// NormalizeStripeEventType maps a Stripe event name onto the internal event
// type. Unknown names are returned unchanged.
func NormalizeStripeEventType(stripeType string) string {
	if t, ok := stripeEventTypes[stripeType]; ok {
		return t
	}
	return stripeType
}

// PaymentIntentRequest is what the provider needs to open an intent.
type PaymentIntentRequest struct {
	AmountMinor int64
	Currency    string
	Metadata    map[string]string
}

type ProviderIntent struct {
	ID           string
	ClientSecret string
}

// ProviderEvent is an authenticated provider notification relayed over the
// event bus.
type ProviderEvent struct {
	Type              string `json:"type"`
	ProviderPaymentID string `json:"providerPaymentId"`
}
