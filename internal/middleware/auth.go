package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"kaban/internal/config"
)

// Context keys set by AuthMiddleware.
const (
	ActorKey  = "actor"
	TenantKey = "tenant"
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims identifies who is acting and for which local government unit.
// The ledger records the actor on every entry; it does not decide what the
// actor may do.
type JWTClaims struct {
	Actor  string `json:"actor"`
	Tenant string `json:"tenant"`
	jwt.RegisteredClaims
}

// GenerateAccessToken issues a signed token for actor within tenant.
func GenerateAccessToken(actor, tenant string, ttl time.Duration) (string, error) {
	if actor == "" || tenant == "" {
		return "", fmt.Errorf("actor and tenant are required")
	}
	if ttl <= 0 {
		ttl = config.Get().JWTExpirationDur
	}

	now := time.Now()
	claims := &JWTClaims{
		Actor:  actor,
		Tenant: tenant,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    config.Get().JWTIssuer,
			Subject:   actor,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// ParseAccessToken validates a token string and returns its claims.
func ParseAccessToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Actor == "" || claims.Tenant == "" {
		return nil, fmt.Errorf("token is missing actor or tenant")
	}
	return claims, nil
}

// AuthMiddleware verifies the JWT token and sets the actor and tenant in the context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := ParseAccessToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ActorKey, claims.Actor)
		c.Set(TenantKey, claims.Tenant)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "UNAUTHORIZED", "message": message},
	})
}
