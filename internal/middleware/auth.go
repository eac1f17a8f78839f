package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
	"hotel-booking/internal/utils"
)

const identityKey = "identity"

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// IdentitySyncer records the caller behind a verified token.
type IdentitySyncer interface {
	SyncIdentity(ctx context.Context, id models.Identity) error
}

// JWTAuth verifies an HMAC-signed Bearer token issued by the identity
// provider and stores the caller's identity on the context.
func JWTAuth(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", "missing bearer token"))
			return
		}
		raw := strings.TrimPrefix(auth, "Bearer ")

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errUnexpectedSigningMethod
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			log.LogSecurity("INVALID_TOKEN", fmt.Sprintf("Rejected token from %s: %v", c.ClientIP(), err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", "invalid token"))
			return
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", "invalid claims"))
			return
		}
		id := models.Identity{
			UserID: claimString(claims, "sub"),
			Email:  claimString(claims, "email"),
			Name:   claimString(claims, "name"),
			Image:  claimString(claims, "picture"),
			Role:   claimString(claims, "role"),
		}
		if id.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", "token has no subject"))
			return
		}
		// Users are unique by email, so a token without one cannot be synced.
		if id.Email == "" {
			log.LogSecurity("INVALID_TOKEN", fmt.Sprintf("Token for %s has no email claim", id.UserID))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", "token has no email"))
			return
		}
		if id.Role == "" {
			id.Role = "user"
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// CurrentIdentity returns the identity stored by JWTAuth.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// SyncUser upserts the authenticated caller before the handler runs, so
// bookings and reviews always reference a stored user.
func SyncUser(users IdentitySyncer, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", ""))
			return
		}
		if err := users.SyncIdentity(c.Request.Context(), id); err != nil {
			log.Warn("AUTH", fmt.Sprintf("Could not sync user %s: %v", id.UserID, err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", "could not register user"))
			return
		}
		c.Next()
	}
}

func RequireRole(role string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok || id.Role != role {
			log.LogSecurity("ROLE_DENIED", fmt.Sprintf("User %s lacks role %s for %s", id.UserID, role, c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse("Forbidden", ""))
			return
		}
		c.Next()
	}
}
