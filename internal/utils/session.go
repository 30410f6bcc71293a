// Package utils carries the authenticated caller through a request context.
package utils

import (
	"context"
	"time"
)

// SessionData is what the session middleware needs from a stored session.
type SessionData struct {
	UserID    string
	ExpiresAt time.Time
}

func (s SessionData) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

type ctxKey int

const (
	userIDKey ctxKey = iota
	roleKey
)

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithRole records the role resolved by the admin check.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

func RoleFrom(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}
