package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	domain "github.com/Seimmet/dolcie-salon/internal/domain/booking"
)

const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextStylistID = "stylistID"
)

// AuthMiddleware requires a bearer token. Identity comes from the token's
// sub, role and optional stylistId claims; issuing tokens is someone
// else's job.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}
		if !authenticate(c, secret) {
			return
		}
		c.Next()
	}
}

// OptionalAuth lets guests through. A token that is present must still be
// valid.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if !authenticate(c, secret) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, secret string) bool {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
		return false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
		return false
	}

	userID, ok := claims["sub"].(float64)
	role, _ := claims["role"].(string)
	if !ok || !knownRole(role) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
		return false
	}

	c.Set(ContextUserID, uint(userID))
	c.Set(ContextUserRole, role)
	if sid, ok := claims["stylistId"].(float64); ok {
		c.Set(ContextStylistID, uint(sid))
	}
	return true
}

func knownRole(role string) bool {
	switch domain.Role(role) {
	case domain.RoleAdmin, domain.RoleStylist, domain.RoleCustomer:
		return true
	}
	return false
}

// ActorFrom reads the identity set by the auth middleware. No identity
// means a guest.
func ActorFrom(c *gin.Context) domain.Actor {
	var a domain.Actor

	if v, ok := c.Get(ContextUserID); ok {
		id := v.(uint)
		a.UserID = &id
	}
	a.Role = domain.Role(c.GetString(ContextUserRole))
	if v, ok := c.Get(ContextStylistID); ok {
		id := v.(uint)
		a.StylistID = &id
	}
	return a
}

// RequireRole rejects callers whose role is not listed.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(ContextUserRole))
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error_code": "forbidden", "message": "insufficient role"})
	}
}
