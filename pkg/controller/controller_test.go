package controller

import (
	"io"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maximthomas/gradify/pkg/idp"
	"github.com/maximthomas/gradify/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, target string, body io.Reader, claims idp.Claims) (*gin.Context, *httptest.ResponseRecorder) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(method, target, body)
	if claims != nil {
		middleware.SetClaims(c, claims)
	}
	return c, recorder
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}
