package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gym-booking/internal/domain/staff"
	"gym-booking/internal/handler/httperr"
	"gym-booking/internal/usecase"

	"github.com/gin-gonic/gin"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errNoRole       = errors.New("role missing from context")
	errForbidden    = errors.New("insufficient role")
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxStaffIDKey   = "staff_id"
	ctxStaffRoleKey = "staff_role"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

// RequireAuth accepts staff tokens only. Members booking a session never
// authenticate; they are identified by employee id.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		staffID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		setStaff(c, staffID, role)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireRoleAtLeast(minRole staff.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetStaffRole(c)
		if !ok {
			// RequireAuth was not mounted in front of this handler
			httperr.AbortWithError(c, http.StatusInternalServerError, errNoRole, "Internal server error", nil)
			return
		}

		if !role.AtLeast(minRole) {
			httperr.AbortWithError(c, http.StatusForbidden, errForbidden, "Insufficient permissions", nil)
			return
		}

		c.Next()
	}
}

// OptionalAuth records the caller when a valid token is present and never aborts.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		staffID, role, err := m.tokenValidator.ValidateToken(token)
		if err == nil {
			setStaff(c, staffID, role)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func setStaff(c *gin.Context, staffID string, role staff.Role) {
	c.Set(ctxStaffIDKey, staffID)
	c.Set(ctxStaffRoleKey, role)
}

func GetStaffID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxStaffIDKey)
	if !exists {
		return "", false
	}

	id, ok := v.(string)
	return id, ok && id != ""
}

func GetStaffRole(c *gin.Context) (staff.Role, bool) {
	v, exists := c.Get(ctxStaffRoleKey)
	if !exists {
		return "", false
	}

	role, ok := v.(staff.Role)
	return role, ok
}
