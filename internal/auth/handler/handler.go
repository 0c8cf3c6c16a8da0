package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"anuragmeds/internal/auth/models"
	authService "anuragmeds/internal/auth/service"
	"anuragmeds/internal/platform/middleware"
	"anuragmeds/internal/transport/http/shared"
	dErrors "anuragmeds/pkg/domain-errors"
)

// Service defines the interface for auth operations.
type Service interface {
	Register(ctx context.Context, req authService.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Whoami(ctx context.Context, userID int64) (*models.User, error)
}

// Handler handles registration, login, and the identity echo endpoint.
type Handler struct {
	logger       *slog.Logger
	auth         Service
	jwtValidator middleware.JWTValidator
}

func New(auth Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		auth:         auth,
		jwtValidator: jwtValidator,
	}
}

// Register registers the auth routes with the chi router. Registration and
// login are deliberately public; /me sits behind the auth guard.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Get("/me", h.handleWhoami)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authService.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validateRegisterRequest(req); err != nil {
		shared.WriteError(w, err)
		return
	}

	user, token, err := h.auth.Register(ctx, req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "registration failed",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"user":  user,
		"token": token,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "login failed",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"token": token,
		"user":  user,
	})
}

func (h *Handler) handleWhoami(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// The middleware has already validated the JWT and set the userID in context
	userID := middleware.GetUserID(ctx)
	if userID == 0 {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	user, err := h.auth.Whoami(ctx, userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"user": user,
	})
}

func validateRegisterRequest(req authService.RegisterRequest) error {
	if req.Email == "" || req.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	if !govalidator.IsEmail(req.Email) {
		return dErrors.New(dErrors.CodeValidation, "invalid email")
	}
	if !govalidator.StringLength(req.Password, "6", "72") {
		return dErrors.New(dErrors.CodeValidation, "password must be between 6 and 72 characters")
	}
	return nil
}
