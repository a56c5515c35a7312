//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"gym-booking/internal/domain/staff"
	"gym-booking/internal/pkg/config"
	"gym-booking/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, staffID string, role staff.Role) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	token, err := jwt.NewService(h.cfg.Secret, duration).GenerateToken(staffID, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, staffID string, role staff.Role) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, time.Millisecond).GenerateToken(staffID, role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}

// AdminToken is a shortcut for the common admin caller.
func (h *JWTHelper) AdminToken(t *testing.T) string {
	t.Helper()
	return h.GenerateToken(t, "admin-1", staff.RoleAdmin)
}
