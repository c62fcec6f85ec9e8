package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maximthomas/gradify/pkg/log"
	"github.com/maximthomas/gradify/pkg/middleware"
	"github.com/maximthomas/gradify/pkg/models"
	"github.com/sirupsen/logrus"
)

type SchoolController struct {
	logger logrus.FieldLogger
}

// registerSchoolRequest is a models.User in which every field must be present.
// Pointers let an explicit "" pass, role is usually empty.
type registerSchoolRequest struct {
	Username  *string `json:"username" binding:"required"`
	Email     *string `json:"email" binding:"required"`
	FirstName *string `json:"first_name" binding:"required"`
	LastName  *string `json:"last_name" binding:"required"`
	Role      *string `json:"role" binding:"required"`
}

func (r registerSchoolRequest) user() models.User {
	return models.User{
		Username:  *r.Username,
		Email:     *r.Email,
		FirstName: *r.FirstName,
		LastName:  *r.LastName,
		Role:      *r.Role,
	}
}

func NewSchoolController() *SchoolController {
	return &SchoolController{
		logger: log.WithField("module", "SchoolController"),
	}
}

// RegisterSchool lets a user register a school for themselves only.
// Nothing is stored, the school record is built from the request.
func (sc *SchoolController) RegisterSchool(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req registerSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sc.logger.Warnf("error binding json body %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	u := req.user()

	current := claims.String("preferred_username")
	if current != u.Username {
		sc.logger.Warnf("user %q tried to register a school for %q", current, u.Username)
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to register a school"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "School registered successfully",
		"data":    models.NewSchool(u.Username, current),
	})
}
