package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"anuragmeds/internal/audit"
	"anuragmeds/internal/payment/gateway"
	"anuragmeds/internal/payment/gateway/mocks"
	"anuragmeds/internal/payment/signature"
	dErrors "anuragmeds/pkg/domain-errors"
)

const (
	testKeyID     = "rzp_test_key"
	testKeySecret = "rzp_test_secret"
)

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards amount and returns checkout fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := mocks.NewMockOrderCreator(ctrl)
		svc := New(orders, testKeyID, testKeySecret)

		orders.EXPECT().
			CreateOrder(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
				assert.Equal(t, int64(50000), req.Amount)
				assert.Equal(t, "INR", req.Currency)
				assert.Equal(t, 1, req.PaymentCapture)
				assert.True(t, strings.HasPrefix(req.Receipt, "order_rcptid_"))
				return &gateway.Order{ID: "order_ABC123", Amount: req.Amount, Currency: req.Currency}, nil
			})

		result, err := svc.CreateOrder(ctx, 50000, "", "")
		require.NoError(t, err)
		assert.Equal(t, "order_ABC123", result.OrderID)
		assert.Equal(t, int64(50000), result.Amount)
		assert.Equal(t, "INR", result.Currency)
		assert.Equal(t, testKeyID, result.KeyID)
	})

	t.Run("passes through explicit currency and receipt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := mocks.NewMockOrderCreator(ctrl)
		svc := New(orders, testKeyID, testKeySecret)

		orders.EXPECT().
			CreateOrder(gomock.Any(), gateway.CreateOrderRequest{
				Amount:         100,
				Currency:       "USD",
				Receipt:        "receipt-42",
				PaymentCapture: 1,
			}).
			Return(&gateway.Order{ID: "order_X", Amount: 100, Currency: "USD"}, nil)

		_, err := svc.CreateOrder(ctx, 100, "USD", "receipt-42")
		require.NoError(t, err)
	})

	t.Run("rejects non-positive amounts without calling the gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := New(mocks.NewMockOrderCreator(ctrl), testKeyID, testKeySecret)

		for _, amount := range []int64{0, -1, -500} {
			_, err := svc.CreateOrder(ctx, amount, "", "")
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		}
	})

	t.Run("unconfigured gateway is an internal error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := New(mocks.NewMockOrderCreator(ctrl), "", "")

		_, err := svc.CreateOrder(ctx, 100, "", "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("gateway failure surfaces as internal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := mocks.NewMockOrderCreator(ctrl)
		svc := New(orders, testKeyID, testKeySecret)

		orders.EXPECT().
			CreateOrder(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("gateway status 502"))

		_, err := svc.CreateOrder(ctx, 100, "", "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func TestVerifyPayment(t *testing.T) {
	ctx := context.Background()

	newService := func(t *testing.T) *Service {
		ctrl := gomock.NewController(t)
		return New(mocks.NewMockOrderCreator(ctrl), testKeyID, testKeySecret)
	}

	t.Run("accepts a correctly signed callback", func(t *testing.T) {
		svc := newService(t)
		sig := signature.Sign(testKeySecret, "order_ABC", "pay_XYZ")

		valid, err := svc.VerifyPayment(ctx, "order_ABC", "pay_XYZ", sig)
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("mismatch is a negative outcome, not an error", func(t *testing.T) {
		svc := newService(t)

		valid, err := svc.VerifyPayment(ctx, "order_ABC", "pay_XYZ", "forged-signature")
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("missing inputs are a validation error", func(t *testing.T) {
		svc := newService(t)
		sig := signature.Sign(testKeySecret, "order_ABC", "pay_XYZ")

		tests := []struct {
			name                        string
			orderID, paymentID, claimed string
		}{
			{"no order id", "", "pay_XYZ", sig},
			{"no payment id", "order_ABC", "", sig},
			{"no signature", "order_ABC", "pay_XYZ", ""},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.VerifyPayment(ctx, tc.orderID, tc.paymentID, tc.claimed)
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			})
		}
	})

	t.Run("unconfigured secret refuses to verify", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := New(mocks.NewMockOrderCreator(ctrl), testKeyID, "")

		// A signature computed over the empty key must not pass.
		forged := signature.Sign("", "order_ABC", "pay_XYZ")
		valid, err := svc.VerifyPayment(ctx, "order_ABC", "pay_XYZ", forged)
		require.Error(t, err)
		assert.False(t, valid)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("records both outcomes in the audit trail", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sink := audit.NewInMemoryStore()
		svc := New(mocks.NewMockOrderCreator(ctrl), testKeyID, testKeySecret,
			WithAuditPublisher(audit.NewPublisher(sink)))

		sig := signature.Sign(testKeySecret, "order_ABC", "pay_XYZ")
		_, err := svc.VerifyPayment(ctx, "order_ABC", "pay_XYZ", sig)
		require.NoError(t, err)
		_, err = svc.VerifyPayment(ctx, "order_ABC", "pay_XYZ", "forged")
		require.NoError(t, err)

		events := sink.Events()
		require.Len(t, events, 2)
		assert.Equal(t, audit.EventPaymentVerified, events[0].Action)
		assert.Equal(t, "valid", events[0].Outcome)
		assert.Equal(t, audit.EventPaymentRejected, events[1].Action)
		assert.Equal(t, "invalid", events[1].Outcome)
	})
}
