package controller

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maximthomas/gradify/pkg/log"
	"github.com/sirupsen/logrus"
)

type RealmKeyProvider interface {
	Realm() string
	RealmPublicKey(ctx context.Context) (*rsa.PublicKey, error)
}

type RealmController struct {
	p      RealmKeyProvider
	logger logrus.FieldLogger
}

func NewRealmController(p RealmKeyProvider) *RealmController {
	return &RealmController{
		p:      p,
		logger: log.WithField("module", "RealmController"),
	}
}

// PublicKey returns the realm signing key as base64 DER, the way Keycloak publishes it.
func (rc *RealmController) PublicKey(c *gin.Context) {
	key, err := rc.p.RealmPublicKey(c.Request.Context())
	if err != nil {
		rc.logger.Errorf("error fetching realm public key: %v", err)
		rc.generateErrorResponse(c)
		return
	}
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		rc.logger.Errorf("error encoding realm public key: %v", err)
		rc.generateErrorResponse(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"realm":      rc.p.Realm(),
		"public_key": base64.StdEncoding.EncodeToString(der),
	})
}

func (rc *RealmController) generateErrorResponse(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch public key from identity provider"})
}
