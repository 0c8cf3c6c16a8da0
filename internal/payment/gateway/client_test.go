package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	t.Run("posts the order with basic auth", func(t *testing.T) {
		var gotReq CreateOrderRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/orders", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "key-id", user)
			assert.Equal(t, "key-secret", pass)

			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			_ = json.NewEncoder(w).Encode(Order{
				ID:       "order_ABC123",
				Amount:   gotReq.Amount,
				Currency: gotReq.Currency,
				Receipt:  gotReq.Receipt,
				Status:   "created",
			})
		}))
		defer server.Close()

		client := NewClient("key-id", "key-secret", WithBaseURL(server.URL))
		order, err := client.CreateOrder(context.Background(), CreateOrderRequest{
			Amount:         50000,
			Currency:       "INR",
			Receipt:        "receipt-1",
			PaymentCapture: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, "order_ABC123", order.ID)
		assert.Equal(t, int64(50000), order.Amount)
		assert.Equal(t, 1, gotReq.PaymentCapture)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"description":"Authentication failed"}}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClient("bad", "creds", WithBaseURL(server.URL))
		_, err := client.CreateOrder(context.Background(), CreateOrderRequest{Amount: 100})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		client := NewClient("key-id", "key-secret", WithBaseURL(server.URL))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.CreateOrder(ctx, CreateOrderRequest{Amount: 100})
		require.Error(t, err)
	})
}
