package testutil

import (
	"context"
	"net/http"

	"anuragmeds/internal/platform/middleware"
)

// WithIdentity adds an authenticated caller to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithIdentity(req *http.Request, userID int64, email, role string) *http.Request {
	ctx := req.Context()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyEmail, email)
	ctx = context.WithValue(ctx, middleware.ContextKeyRole, role)
	return req.WithContext(ctx)
}
