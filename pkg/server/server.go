package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maximthomas/gradify/pkg/config"
	"github.com/maximthomas/gradify/pkg/controller"
	"github.com/maximthomas/gradify/pkg/idp"
	"github.com/maximthomas/gradify/pkg/log"
	"github.com/maximthomas/gradify/pkg/middleware"
	cors "github.com/rs/cors/wrapper/gin"
)

// IdentityProvider is everything the routes need from the realm client.
type IdentityProvider interface {
	controller.TokenIssuer
	controller.RealmKeyProvider
	middleware.UserInfoProvider
}

func SetupRouter(conf config.Config, p IdentityProvider) *gin.Engine {
	router := gin.New()
	c := cors.New(cors.Options{
		AllowedOrigins:   conf.Server.Cors.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
		Debug:            gin.IsDebugging(),
	})

	router.Use(gin.Recovery(), middleware.NewRequestLogMiddleware(), c)

	var tc = controller.NewTokenController(p)
	var sc = controller.NewSchoolController()
	var uc = controller.NewUserController()
	var rc = controller.NewRealmController(p)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/token", tc.Token)
	router.GET("/realm/public-key", rc.PublicKey)

	authenticated := router.Group("", middleware.NewBearerMiddleware(p))
	{
		authenticated.POST("/register-school", sc.RegisterSchool)
		authenticated.GET("/users/me", uc.Me)
		authenticated.GET("/admin/users", uc.AdminUsers)
	}
	return router
}

func RunServer() error {
	conf := config.GetConfig()
	logger := log.WithField("module", "server")

	client, err := idp.New(context.Background(), conf.IdP)
	if err != nil {
		return err
	}
	router := SetupRouter(conf, client)
	addr := fmt.Sprintf(":%d", conf.Server.Port)
	logger.Infof("forwarding to realm %s, listening on %s", client.Realm(), addr)
	return router.Run(addr)
}
