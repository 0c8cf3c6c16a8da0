package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string
	Timestamp time.Time
	UserID    int64
	Action    string
	Subject   string
	Outcome   string
	RequestID string
}

// Actions recorded by this system.
const (
	EventUserRegistered     = "user.registered"
	EventUserLogin          = "user.login"
	EventUserLoginFailed    = "user.login_failed"
	EventPrescriptionStored = "prescription.created"
	EventOrderCreated       = "payment.order_created"
	EventPaymentVerified    = "payment.verified"
	EventPaymentRejected    = "payment.verification_failed"
)
