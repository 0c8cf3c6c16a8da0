package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	paymentService "anuragmeds/internal/payment/service"
	"anuragmeds/internal/platform/middleware"
	"anuragmeds/internal/transport/http/shared"
	dErrors "anuragmeds/pkg/domain-errors"
)

// Service defines the interface for payment operations.
type Service interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*paymentService.OrderResult, error)
	VerifyPayment(ctx context.Context, orderID, paymentID, claimedSignature string) (bool, error)
}

// Handler handles the payment endpoints. Both are deliberately public: order
// creation happens before login in the checkout flow, and verification
// authenticates itself through the signature.
type Handler struct {
	logger   *slog.Logger
	payments Service
}

func New(payments Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, payments: payments}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/create-order", h.handleCreateOrder)
	r.Post("/verify", h.handleVerify)
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type verifyRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.payments.CreateOrder(ctx, req.Amount, req.Currency, req.Receipt)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to create order",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"orderId":  result.OrderID,
		"amount":   result.Amount,
		"currency": result.Currency,
		"keyId":    result.KeyID,
	})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	valid, err := h.payments.VerifyPayment(ctx, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// A mismatch is a normal negative result, not an error.
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"valid": valid,
	})
}
