// Package idptest runs a fake Keycloak realm for tests.
package idptest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/maximthomas/gradify/pkg/config"
)

const (
	Realm        = "gradify"
	ClientID     = "gradibackend"
	ClientSecret = "test-secret"
)

type user struct {
	password string
	claims   map[string]interface{}
}

// Server serves the realm descriptor, OpenID discovery, token and userinfo endpoints.
type Server struct {
	*httptest.Server
	PublicKey string

	mu            sync.Mutex
	users         map[string]user
	tokens        map[string]map[string]interface{}
	tokenCalls    int32
	userInfoCalls int32
}

func NewServer() *Server {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		panic(err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		panic(err)
	}
	s := &Server{
		PublicKey: base64.StdEncoding.EncodeToString(der),
		users:     make(map[string]user),
		tokens:    make(map[string]map[string]interface{}),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// AddUser registers a user and returns the access token the fake realm issues for it.
func (s *Server) AddUser(username, password string, claims map[string]interface{}) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if claims == nil {
		claims = map[string]interface{}{}
	}
	if _, ok := claims["preferred_username"]; !ok {
		claims["preferred_username"] = username
	}
	s.users[username] = user{password: password, claims: claims}
	token := AccessToken(username)
	s.tokens[token] = claims
	return token
}

func AccessToken(username string) string {
	return "at-" + username
}

func (s *Server) RealmURL() string {
	return s.URL + "/realms/" + Realm
}

func (s *Server) TokenCalls() int {
	return int(atomic.LoadInt32(&s.tokenCalls))
}

func (s *Server) UserInfoCalls() int {
	return int(atomic.LoadInt32(&s.userInfoCalls))
}

func (s *Server) IdPConfig() config.IdP {
	return config.IdP{
		BaseURL:      s.URL,
		Realm:        Realm,
		ClientID:     ClientID,
		ClientSecret: ClientSecret,
	}
}

func (s *Server) handle(rw http.ResponseWriter, req *http.Request) {
	realmPath := "/realms/" + Realm
	switch {
	case req.Method == http.MethodGet && req.URL.Path == realmPath:
		writeJSON(rw, http.StatusOK, map[string]interface{}{
			"realm":      Realm,
			"public_key": s.PublicKey,
		})
	case req.Method == http.MethodGet && req.URL.Path == realmPath+"/.well-known/openid-configuration":
		issuer := s.RealmURL()
		writeJSON(rw, http.StatusOK, map[string]interface{}{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + "/protocol/openid-connect/auth",
			"token_endpoint":         issuer + "/protocol/openid-connect/token",
			"userinfo_endpoint":      issuer + "/protocol/openid-connect/userinfo",
			"jwks_uri":               issuer + "/protocol/openid-connect/certs",
		})
	case req.Method == http.MethodPost && req.URL.Path == realmPath+"/protocol/openid-connect/token":
		s.token(rw, req)
	case req.Method == http.MethodGet && req.URL.Path == realmPath+"/protocol/openid-connect/userinfo":
		s.userInfo(rw, req)
	default:
		writeJSON(rw, http.StatusNotFound, map[string]interface{}{"error": "not found"})
	}
}

func (s *Server) token(rw http.ResponseWriter, req *http.Request) {
	atomic.AddInt32(&s.tokenCalls, 1)
	if err := req.ParseForm(); err != nil {
		writeJSON(rw, http.StatusBadRequest, map[string]interface{}{"error": "invalid_request"})
		return
	}
	if req.PostForm.Get("client_id") != ClientID || req.PostForm.Get("client_secret") != ClientSecret {
		writeJSON(rw, http.StatusUnauthorized, map[string]interface{}{"error": "unauthorized_client"})
		return
	}
	if req.PostForm.Get("grant_type") != "password" {
		writeJSON(rw, http.StatusBadRequest, map[string]interface{}{"error": "unsupported_grant_type"})
		return
	}
	username := req.PostForm.Get("username")
	s.mu.Lock()
	u, ok := s.users[username]
	s.mu.Unlock()
	if !ok || u.password != req.PostForm.Get("password") {
		writeJSON(rw, http.StatusUnauthorized, map[string]interface{}{
			"error":             "invalid_grant",
			"error_description": "Invalid user credentials",
		})
		return
	}
	writeJSON(rw, http.StatusOK, map[string]interface{}{
		"access_token":       AccessToken(username),
		"expires_in":         300,
		"refresh_expires_in": 1800,
		"refresh_token":      "rt-" + username,
		"token_type":         "Bearer",
		"scope":              "openid email profile",
	})
}

func (s *Server) userInfo(rw http.ResponseWriter, req *http.Request) {
	atomic.AddInt32(&s.userInfoCalls, 1)
	token := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
	s.mu.Lock()
	claims, ok := s.tokens[token]
	s.mu.Unlock()
	if !ok {
		writeJSON(rw, http.StatusUnauthorized, map[string]interface{}{
			"error":             "invalid_token",
			"error_description": "Token verification failed",
		})
		return
	}
	writeJSON(rw, http.StatusOK, claims)
}

func writeJSON(rw http.ResponseWriter, status int, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
