package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maximthomas/gradify/pkg/idp"
	"github.com/maximthomas/gradify/pkg/log"
	"github.com/sirupsen/logrus"
)

const claimsKey = "claims"

// UserInfoProvider validates a bearer token and returns its claims.
type UserInfoProvider interface {
	UserInfo(ctx context.Context, token string) (idp.Claims, error)
}

func NewBearerMiddleware(p UserInfoProvider) gin.HandlerFunc {
	return bearerMiddleware{p, log.WithField("module", "BearerMiddleware")}.build()
}

type bearerMiddleware struct {
	p      UserInfoProvider
	logger logrus.FieldLogger
}

func (b bearerMiddleware) build() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := getBearerToken(c)
		if token == "" {
			unauthorized(c, "Not authenticated")
			return
		}

		claims, err := b.p.UserInfo(c.Request.Context(), token)
		if err != nil {
			if idp.IsInvalidToken(err) {
				unauthorized(c, "Invalid or expired token")
				return
			}
			b.logger.Errorf("error validating token: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "identity provider unavailable"})
			return
		}

		SetClaims(c, claims)
		c.Next()
	}
}

func SetClaims(c *gin.Context, claims idp.Claims) {
	c.Set(claimsKey, claims)
}

// GetClaims returns the claims stored by the bearer middleware.
func GetClaims(c *gin.Context) (idp.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(idp.Claims)
	return claims, ok
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

func getBearerToken(c *gin.Context) string {
	reqToken := c.Request.Header.Get("Authorization")
	scheme, token, found := strings.Cut(reqToken, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
