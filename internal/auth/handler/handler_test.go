package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anuragmeds/internal/auth/models"
	authService "anuragmeds/internal/auth/service"
	"anuragmeds/internal/auth/store/user"
	"anuragmeds/internal/jwttoken"
	"anuragmeds/pkg/testutil"
)

type authResponse struct {
	OK    bool         `json:"ok"`
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtService := jwttoken.NewJWTService("handler-test-key", "anuragmeds-test", time.Hour)
	svc := authService.New(user.NewInMemory(), jwtService, authService.WithLogger(logger))

	r := chi.NewRouter()
	New(svc, logger, jwttoken.NewJWTServiceAdapter(jwtService)).Register(r)
	return r
}

func registerUser(t *testing.T, router http.Handler, email, password string) *authResponse {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     "Test User",
		"phone":    "9876543210",
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	return testutil.UnmarshalResponse[authResponse](t, rr)
}

func TestHandleRegister(t *testing.T) {
	t.Run("returns user and token", func(t *testing.T) {
		router := newTestRouter(t)

		resp := registerUser(t, router, "alice@example.com", "hunter22")
		assert.True(t, resp.OK)
		assert.NotEmpty(t, resp.Token)
		require.NotNil(t, resp.User)
		assert.Equal(t, "alice@example.com", resp.User.Email)
		assert.Equal(t, models.RoleUser, resp.User.Role)
	})

	t.Run("never echoes the password hash", func(t *testing.T) {
		router := newTestRouter(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register", map[string]string{
			"email":    "bob@example.com",
			"password": "hunter22",
		})
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.NotContains(t, string(testutil.ReadBody(t, rr)), "password")
	})

	t.Run("validates input", func(t *testing.T) {
		router := newTestRouter(t)

		tests := []struct {
			name string
			body map[string]string
		}{
			{"missing email", map[string]string{"password": "hunter22"}},
			{"missing password", map[string]string{"email": "a@b.com"}},
			{"malformed email", map[string]string{"email": "not-an-email", "password": "hunter22"}},
			{"short password", map[string]string{"email": "a@b.com", "password": "abc"}},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register", tc.body)
				rr := testutil.DoRequest(router, req)
				testutil.AssertStatus(t, rr, http.StatusBadRequest)
				testutil.AssertErrorCode(t, rr, "validation_error")
			})
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		router := newTestRouter(t)

		req := testutil.NewRequestWithBody(t, http.MethodPost, "/auth/register", "{not json")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
		testutil.AssertErrorCode(t, rr, "bad_request")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		router := newTestRouter(t)
		registerUser(t, router, "dup@example.com", "hunter22")

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/register", map[string]string{
			"email":    "dup@example.com",
			"password": "hunter22",
		})
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusConflict)
		testutil.AssertErrorCode(t, rr, "conflict")
	})
}

func TestHandleLogin(t *testing.T) {
	t.Run("returns a fresh token", func(t *testing.T) {
		router := newTestRouter(t)
		registerUser(t, router, "carol@example.com", "hunter22")

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    "carol@example.com",
			"password": "hunter22",
		})
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		resp := testutil.UnmarshalResponse[authResponse](t, rr)
		assert.True(t, resp.OK)
		assert.NotEmpty(t, resp.Token)
		require.NotNil(t, resp.User)
		assert.Equal(t, "carol@example.com", resp.User.Email)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		router := newTestRouter(t)
		registerUser(t, router, "carol@example.com", "hunter22")

		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    "carol@example.com",
			"password": "wrong",
		})
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		testutil.AssertErrorCode(t, rr, "unauthorized")
	})
}

func TestHandleWhoami(t *testing.T) {
	t.Run("returns the caller's identity", func(t *testing.T) {
		router := newTestRouter(t)
		registered := registerUser(t, router, "dave@example.com", "hunter22")

		req := testutil.NewJSONRequest(t, http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+registered.Token)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		resp := testutil.UnmarshalResponse[authResponse](t, rr)
		require.NotNil(t, resp.User)
		assert.Equal(t, registered.User.ID, resp.User.ID)
		assert.Equal(t, "dave@example.com", resp.User.Email)
	})

	t.Run("requires a token", func(t *testing.T) {
		router := newTestRouter(t)

		req := testutil.NewJSONRequest(t, http.MethodGet, "/me", nil)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		router := newTestRouter(t)

		req := testutil.NewJSONRequest(t, http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-real-token")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}
