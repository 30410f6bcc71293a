package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserIDRoundTrip(t *testing.T) {
	_, ok := UserIDFrom(context.Background())
	assert.False(t, ok)

	ctx := WithUserID(context.Background(), "user-7")
	id, ok := UserIDFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-7", id)

	_, ok = UserIDFrom(WithUserID(context.Background(), ""))
	assert.False(t, ok)
}

func TestRole(t *testing.T) {
	assert.Empty(t, RoleFrom(context.Background()))
	assert.Equal(t, "admin", RoleFrom(WithRole(context.Background(), "admin")))
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, SessionData{ExpiresAt: now.Add(-time.Second)}.Expired(now))
	assert.True(t, SessionData{ExpiresAt: now}.Expired(now))
	assert.False(t, SessionData{ExpiresAt: now.Add(time.Minute)}.Expired(now))
}
