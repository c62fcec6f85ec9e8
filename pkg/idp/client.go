package idp

import (
	"context"
	"crypto/rsa"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dgrijalva/jwt-go"
	"github.com/maximthomas/gradify/pkg/config"
	"github.com/maximthomas/gradify/pkg/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const maxBodySize = 1 << 20

// Client talks to a single Keycloak realm: password grants, user-info lookups
// and the realm descriptor. It keeps no state between calls.
type Client struct {
	realm        string
	realmURL     string
	clientID     string
	clientSecret string
	userInfoURL  string
	client       *http.Client
	logger       logrus.FieldLogger

	// carries the token URL, static or discovered; the password grant is built by hand
	endpoint oauth2.Endpoint
}

// NewClient builds a client whose endpoints follow the Keycloak realm layout.
func NewClient(conf config.IdP) *Client {
	realmURL := RealmURL(conf.BaseURL, conf.Realm)
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: conf.SkipTLS, //nolint:gosec
	}
	return &Client{
		realm:        conf.Realm,
		realmURL:     realmURL,
		clientID:     conf.ClientID,
		clientSecret: conf.ClientSecret,
		endpoint: oauth2.Endpoint{
			TokenURL: realmURL + "/protocol/openid-connect/token",
		},
		userInfoURL: realmURL + "/protocol/openid-connect/userinfo",
		client: &http.Client{
			Timeout:   conf.Timeout,
			Transport: transport,
		},
		logger: log.WithField("module", "idp"),
	}
}

// New returns a client for the configured realm. With discovery enabled the
// token and user-info endpoints are taken from the realm's OpenID configuration.
func New(ctx context.Context, conf config.IdP) (*Client, error) {
	c := NewClient(conf)
	if !conf.Discovery {
		return c, nil
	}
	if err := c.Discover(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Discover resolves the endpoints from {realmURL}/.well-known/openid-configuration.
func (c *Client) Discover(ctx context.Context) error {
	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, c.client), c.realmURL)
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "oidc discovery for %s: %v", c.realmURL, err)
	}
	c.endpoint = provider.Endpoint()
	if u := provider.UserInfoEndpoint(); u != "" {
		c.userInfoURL = u
	}
	c.logger.Infof("discovered endpoints token=%s userinfo=%s", c.endpoint.TokenURL, c.userInfoURL)
	return nil
}

func RealmURL(baseURL, realm string) string {
	return fmt.Sprintf("%s/realms/%s", strings.TrimSuffix(baseURL, "/"), url.PathEscape(realm))
}

func (c *Client) Realm() string {
	return c.realm
}

func (c *Client) TokenURL() string {
	return c.endpoint.TokenURL
}

func (c *Client) UserInfoURL() string {
	return c.userInfoURL
}

// RequestToken performs a resource owner password grant and returns the token
// endpoint response body unmodified.
func (c *Client) RequestToken(ctx context.Context, username, password string) ([]byte, error) {
	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"password"},
		"username":      {username},
		"password":      {password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "create token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	c.logger.WithField("username", username).Infof("token endpoint responded with status %d", status)
	if status != http.StatusOK {
		return nil, errors.Wrapf(ErrInvalidCredentials, "token endpoint returned status %d", status)
	}
	if !json.Valid(body) {
		return nil, errors.Wrap(ErrUnavailable, "token endpoint returned malformed json")
	}
	return body, nil
}

// UserInfo validates the bearer token by calling the user-info endpoint and
// returns the claims it reports.
func (c *Client) UserInfo(ctx context.Context, token string) (Claims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create userinfo request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		c.logger.Debugf("userinfo endpoint responded with status %d", status)
		return nil, errors.Wrapf(ErrInvalidToken, "userinfo endpoint returned status %d", status)
	}
	var claims Claims
	if err = json.Unmarshal(body, &claims); err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "parse userinfo response: %v", err)
	}
	if claims == nil {
		claims = Claims{}
	}
	return claims, nil
}

// RealmPublicKey fetches the realm descriptor and parses its public_key.
func (c *Client) RealmPublicKey(ctx context.Context) (*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.realmURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create realm request")
	}
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, errors.Wrapf(ErrUnavailable, "realm endpoint returned status %d", status)
	}
	var realm struct {
		PublicKey string `json:"public_key"`
	}
	if err = json.Unmarshal(body, &realm); err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "parse realm response: %v", err)
	}
	if realm.PublicKey == "" {
		return nil, errors.Wrap(ErrUnavailable, "realm response has no public_key")
	}
	pemKey := "-----BEGIN PUBLIC KEY-----\n" + realm.PublicKey + "\n-----END PUBLIC KEY-----\n"
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "parse realm public key: %v", err)
	}
	return key, nil
}

func (c *Client) do(req *http.Request) (status int, body []byte, err error) {
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Errorf("request to %s failed: %v", req.URL.Path, err)
		return 0, nil, errors.Wrapf(ErrUnavailable, "%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, errors.Wrapf(ErrUnavailable, "read %s response: %v", req.URL.Path, err)
	}
	return resp.StatusCode, body, nil
}
