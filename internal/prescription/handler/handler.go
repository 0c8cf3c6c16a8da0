package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authModels "anuragmeds/internal/auth/models"
	"anuragmeds/internal/platform/middleware"
	"anuragmeds/internal/prescription/models"
	"anuragmeds/internal/transport/http/shared"
	dErrors "anuragmeds/pkg/domain-errors"
)

// Service defines the interface for prescription operations.
type Service interface {
	List(ctx context.Context, caller authModels.Identity) ([]models.Prescription, error)
	Create(ctx context.Context, caller authModels.Identity, req models.CreateRequest) (int64, error)
	FetchFile(ctx context.Context, id int64, caller authModels.Identity) (*models.File, error)
}

// Handler handles prescription record endpoints.
type Handler struct {
	logger         *slog.Logger
	prescriptions  Service
	jwtValidator   middleware.JWTValidator
	maxUploadBytes int64
}

func New(prescriptions Service, logger *slog.Logger, jwtValidator middleware.JWTValidator, maxUploadBytes int64) *Handler {
	return &Handler{
		logger:         logger,
		prescriptions:  prescriptions,
		jwtValidator:   jwtValidator,
		maxUploadBytes: maxUploadBytes,
	}
}

// Register registers the prescription routes with the chi router. Listing and
// file download sit behind the auth guard; creation accepts anonymous
// submissions but attributes ownership when a valid token is present.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Get("/prescriptions", h.handleList)
		r.Get("/prescriptions/{id}/file", h.handleFetchFile)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(h.jwtValidator, h.logger))
		r.Post("/prescriptions", h.handleCreate)
	})
}

// callerIdentity rebuilds the caller identity the auth middleware bound to
// the request context. Zero value means anonymous.
func callerIdentity(ctx context.Context) authModels.Identity {
	id := middleware.GetUserID(ctx)
	if id == 0 {
		return authModels.Identity{}
	}
	return authModels.Identity{
		ID:    id,
		Email: middleware.GetEmail(ctx),
		Role:  authModels.ParseRole(middleware.GetRole(ctx)),
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.prescriptions.List(ctx, callerIdentity(ctx))
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to list prescriptions",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"data": records,
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form or file too large"))
		return
	}

	req := models.CreateRequest{
		FullName: r.FormValue("fullName"),
		Phone:    r.FormValue("phone"),
		Address:  r.FormValue("address"),
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read uploaded file"))
			return
		}
		req.FileData = data
		req.FileName = header.Filename
		req.FileMime = header.Header.Get("Content-Type")
	case errors.Is(err, http.ErrMissingFile):
		// File is optional; the record is created without one.
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid file field"))
		return
	}

	id, err := h.prescriptions.Create(ctx, callerIdentity(ctx), req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to create prescription",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"id": id,
	})
}

func (h *Handler) handleFetchFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid prescription id"))
		return
	}

	file, err := h.prescriptions.FetchFile(ctx, id, callerIdentity(ctx))
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to fetch prescription file",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	mime := file.Mime
	if mime == "" {
		mime = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Bytes)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Bytes)
}
