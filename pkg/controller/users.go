package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maximthomas/gradify/pkg/log"
	"github.com/maximthomas/gradify/pkg/middleware"
	"github.com/maximthomas/gradify/pkg/models"
	"github.com/sirupsen/logrus"
)

// SchoolAdminRole is the value of the role claim allowed to list users.
const SchoolAdminRole = "schooladmin"

type UserController struct {
	logger logrus.FieldLogger
}

func NewUserController() *UserController {
	return &UserController{
		logger: log.WithField("module", "UserController"),
	}
}

// Me returns the caller's profile built from the token claims.
func (uc *UserController) Me(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	u, err := models.UserFromClaims(claims)
	if err != nil {
		uc.logger.Errorf("error reading claims: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user claims"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// AdminUsers lists users for school admins. The list is static sample data.
func (uc *UserController) AdminUsers(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if claims.String("role") != SchoolAdminRole {
		uc.logger.Warnf("user %q is not a school admin", claims.String("preferred_username"))
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view all users"})
		return
	}
	c.JSON(http.StatusOK, models.SampleUsers())
}
