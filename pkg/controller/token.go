package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/maximthomas/gradify/pkg/idp"
	"github.com/maximthomas/gradify/pkg/log"
	"github.com/sirupsen/logrus"
)

// TokenIssuer exchanges user credentials for a token response.
type TokenIssuer interface {
	RequestToken(ctx context.Context, username, password string) ([]byte, error)
}

// TokenController forwards password logins to the identity provider
type TokenController struct {
	issuer TokenIssuer
	logger logrus.FieldLogger
}

type tokenForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func NewTokenController(issuer TokenIssuer) *TokenController {
	return &TokenController{
		issuer: issuer,
		logger: log.WithField("module", "TokenController"),
	}
}

// Token gin handler function
func (tc *TokenController) Token(c *gin.Context) {
	var form tokenForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		tc.logger.Warnf("error binding token form: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	body, err := tc.issuer.RequestToken(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if idp.IsInvalidCredentials(err) {
			tc.logger.WithField("username", form.Username).Info("login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user credentials"})
			return
		}
		tc.logger.Errorf("token request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "identity provider unavailable"})
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}
