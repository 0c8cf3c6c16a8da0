package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	UsersCreated         prometheus.Counter
	Logins               *prometheus.CounterVec
	PrescriptionsCreated prometheus.Counter
	PaymentOrdersCreated prometheus.Counter
	PaymentVerifications *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meds_users_created_total",
			Help: "Total number of users created in the system",
		}),
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meds_logins_total",
			Help: "Total number of login attempts by outcome",
		}, []string{"outcome"}),
		PrescriptionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meds_prescriptions_created_total",
			Help: "Total number of prescription records created",
		}),
		PaymentOrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meds_payment_orders_created_total",
			Help: "Total number of payment orders created with the gateway",
		}),
		PaymentVerifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meds_payment_verifications_total",
			Help: "Total number of payment signature verifications by outcome",
		}, []string{"outcome"}),
	}
}

// IncrementUsersCreated increments the users created counter by 1
func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

func (m *Metrics) IncrementLogin(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementPrescriptionsCreated() {
	if m == nil {
		return
	}
	m.PrescriptionsCreated.Inc()
}

func (m *Metrics) IncrementPaymentOrdersCreated() {
	if m == nil {
		return
	}
	m.PaymentOrdersCreated.Inc()
}

func (m *Metrics) IncrementPaymentVerification(outcome string) {
	if m == nil {
		return
	}
	m.PaymentVerifications.WithLabelValues(outcome).Inc()
}
