package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"anuragmeds/internal/audit"
	"anuragmeds/internal/payment/gateway"
	"anuragmeds/internal/payment/signature"
	"anuragmeds/internal/platform/metrics"
	dErrors "anuragmeds/pkg/domain-errors"
)

const defaultCurrency = "INR"

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service brokers order creation with the gateway and verifies payment
// callbacks against the shared secret.
type Service struct {
	orders         gateway.OrderCreator
	keyID          string
	keySecret      string
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(orders gateway.OrderCreator, keyID, keySecret string, opts ...Option) *Service {
	s := &Service{
		orders:    orders,
		keyID:     keyID,
		keySecret: keySecret,
		tracer:    otel.Tracer("anuragmeds/payment"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// OrderResult is what the client needs to open the gateway's checkout.
type OrderResult struct {
	OrderID  string
	Amount   int64
	Currency string
	KeyID    string
}

// CreateOrder creates a gateway order for the given amount (smallest
// currency unit). Currency defaults to INR and receipt to a generated id,
// matching the gateway's conventions.
func (s *Service) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*OrderResult, error) {
	if amount < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid amount")
	}
	if s.keyID == "" || s.keySecret == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "payment gateway is not configured")
	}
	if currency == "" {
		currency = defaultCurrency
	}
	if receipt == "" {
		receipt = fmt.Sprintf("order_rcptid_%s", uuid.NewString())
	}

	order, err := s.orders.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:         amount,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create order")
	}

	s.logAudit(ctx, audit.EventOrderCreated, order.ID, "created")
	s.metrics.IncrementPaymentOrdersCreated()

	return &OrderResult{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.keyID,
	}, nil
}

// VerifyPayment checks a client-reported payment completion against the
// shared secret. A mismatch is a normal negative outcome, not an error;
// missing inputs are a validation error.
func (s *Service) VerifyPayment(ctx context.Context, orderID, paymentID, claimedSignature string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "payment.verify")
	defer span.End()

	if orderID == "" || paymentID == "" || claimedSignature == "" {
		return false, dErrors.New(dErrors.CodeValidation, "orderId, paymentId and signature are required")
	}
	// Without the shared secret there is nothing to verify against; running
	// the HMAC with an empty key would let anyone forge a passing signature.
	if s.keySecret == "" {
		return false, dErrors.New(dErrors.CodeInternal, "payment gateway is not configured")
	}

	start := time.Now()
	valid := signature.Verify(s.keySecret, orderID, paymentID, claimedSignature)
	s.logger.DebugContext(ctx, "payment signature verified",
		"order_id", orderID,
		"valid", valid,
		"duration_us", time.Since(start).Microseconds(),
	)

	if valid {
		s.logAudit(ctx, audit.EventPaymentVerified, orderID, "valid")
		s.metrics.IncrementPaymentVerification("valid")
	} else {
		s.logAudit(ctx, audit.EventPaymentRejected, orderID, "invalid")
		s.metrics.IncrementPaymentVerification("invalid")
	}
	return valid, nil
}

func (s *Service) logAudit(ctx context.Context, action, subject, outcome string) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:  action,
		Subject: subject,
		Outcome: outcome,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}
