package controller

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/maximthomas/gradify/pkg/idp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeIssuer struct {
	body  []byte
	err   error
	calls int
	user  string
}

func (f *fakeIssuer) RequestToken(_ context.Context, username, _ string) ([]byte, error) {
	f.calls++
	f.user = username
	return f.body, f.err
}

func TestTokenController_Token(t *testing.T) {
	const tokenBody = `{"access_token":"at","expires_in":300,"refresh_token":"rt","token_type":"Bearer"}`
	tests := []struct {
		name         string
		form         url.Values
		issuer       *fakeIssuer
		wantStatus   int
		wantBody     string
		wantUpstream int
	}{
		{
			name:         "valid credentials",
			form:         url.Values{"username": {"teacher1"}, "password": {"passw0rd"}},
			issuer:       &fakeIssuer{body: []byte(tokenBody)},
			wantStatus:   http.StatusOK,
			wantBody:     tokenBody,
			wantUpstream: 1,
		},
		{
			name:         "rejected credentials",
			form:         url.Values{"username": {"teacher1"}, "password": {"bad"}},
			issuer:       &fakeIssuer{err: errors.Wrap(idp.ErrInvalidCredentials, "status 401")},
			wantStatus:   http.StatusUnauthorized,
			wantBody:     `{"error":"Invalid user credentials"}`,
			wantUpstream: 1,
		},
		{
			name:         "provider unavailable",
			form:         url.Values{"username": {"teacher1"}, "password": {"passw0rd"}},
			issuer:       &fakeIssuer{err: errors.Wrap(idp.ErrUnavailable, "connection refused")},
			wantStatus:   http.StatusInternalServerError,
			wantBody:     `{"error":"identity provider unavailable"}`,
			wantUpstream: 1,
		},
		{
			name:         "missing password",
			form:         url.Values{"username": {"teacher1"}},
			issuer:       &fakeIssuer{},
			wantStatus:   http.StatusBadRequest,
			wantBody:     `{"error":"bad request"}`,
			wantUpstream: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := NewTokenController(tt.issuer)
			c, recorder := newTestContext("POST", "/token", strings.NewReader(tt.form.Encode()), nil)
			c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			tc.Token(c)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.JSONEq(t, tt.wantBody, recorder.Body.String())
			assert.Equal(t, tt.wantUpstream, tt.issuer.calls)
		})
	}
}

func TestTokenController_BodyUnmodified(t *testing.T) {
	const raw = `{"access_token":"at",  "not-before-policy":0}`
	tc := NewTokenController(&fakeIssuer{body: []byte(raw)})
	form := url.Values{"username": {"u"}, "password": {"p"}}
	c, recorder := newTestContext("POST", "/token", strings.NewReader(form.Encode()), nil)
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	tc.Token(c)
	assert.Equal(t, raw, recorder.Body.String())
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
}
