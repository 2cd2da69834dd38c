package middleware

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
)

type contextKey string

const ctxProfileID contextKey = "profile_id"

// WithProfileID injects the authenticated profile into the context.
func WithProfileID(ctx context.Context, profileID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxProfileID, profileID)
}

// ProfileIDFromContext returns the authenticated profile or an unauthorized
// error when the request never passed the auth middleware.
func ProfileIDFromContext(ctx context.Context) (uuid.UUID, error) {
	if ctx == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	if v, ok := ctx.Value(ctxProfileID).(uuid.UUID); ok && v != uuid.Nil {
		return v, nil
	}
	return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
}
