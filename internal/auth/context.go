package auth

import (
	"context"
	"errors"
)

type ctxKey int

const (
	ctxUserID ctxKey = iota
	ctxTenantID
	ctxRole
)

func WithIdentity(ctx context.Context, userID, tenantID int64, role string) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxTenantID, tenantID)
	ctx = context.WithValue(ctx, ctxRole, role)
	return ctx
}

func UserID(ctx context.Context) (int64, error) {
	if id, ok := ctx.Value(ctxUserID).(int64); ok && id > 0 {
		return id, nil
	}
	return 0, errors.New("user_id not in context")
}

func TenantID(ctx context.Context) (int64, error) {
	if id, ok := ctx.Value(ctxTenantID).(int64); ok && id > 0 {
		return id, nil
	}
	return 0, errors.New("tenant_id not in context")
}

func Role(ctx context.Context) (string, error) {
	if s, ok := ctx.Value(ctxRole).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("role not in context")
}
