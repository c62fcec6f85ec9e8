package controller

import (
	"net/http"
	"testing"

	"github.com/maximthomas/gradify/pkg/idp"
	"github.com/stretchr/testify/assert"
)

func TestSchoolController_RegisterSchool(t *testing.T) {
	const teacherBody = `{"username":"teacher1","email":"teacher1@example.com","first_name":"Alice","last_name":"Smith","role":""}`
	tests := []struct {
		name       string
		body       string
		claims     idp.Claims
		wantStatus int
		wantBody   string
	}{
		{
			name:       "self registration",
			body:       teacherBody,
			claims:     idp.Claims{"preferred_username": "teacher1"},
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"School registered successfully","data":{"school_name":"teacher1's School","admin":"teacher1"}}`,
		},
		{
			name:       "other user",
			body:       teacherBody,
			claims:     idp.Claims{"preferred_username": "student1"},
			wantStatus: http.StatusForbidden,
			wantBody:   `{"error":"You are not authorized to register a school"}`,
		},
		{
			name:       "no username claim",
			body:       teacherBody,
			claims:     idp.Claims{},
			wantStatus: http.StatusForbidden,
			wantBody:   `{"error":"You are not authorized to register a school"}`,
		},
		{
			name:       "bad body",
			body:       `bad body`,
			claims:     idp.Claims{"preferred_username": "teacher1"},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"bad request"}`,
		},
		{
			name:       "empty fields are present",
			body:       `{"username":"teacher1","email":"","first_name":"","last_name":"","role":""}`,
			claims:     idp.Claims{"preferred_username": "teacher1"},
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"School registered successfully","data":{"school_name":"teacher1's School","admin":"teacher1"}}`,
		},
		{
			name:       "missing role",
			body:       `{"username":"teacher1","email":"teacher1@example.com","first_name":"Alice","last_name":"Smith"}`,
			claims:     idp.Claims{"preferred_username": "teacher1"},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"bad request"}`,
		},
		{
			name:       "missing last name",
			body:       `{"username":"teacher1","email":"teacher1@example.com","first_name":"Alice","role":""}`,
			claims:     idp.Claims{"preferred_username": "teacher1"},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"bad request"}`,
		},
		{
			name:       "null email",
			body:       `{"username":"teacher1","email":null,"first_name":"Alice","last_name":"Smith","role":""}`,
			claims:     idp.Claims{"preferred_username": "teacher1"},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"bad request"}`,
		},
		{
			name:       "missing username",
			body:       `{"email":"teacher1@example.com"}`,
			claims:     idp.Claims{"preferred_username": "teacher1"},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"bad request"}`,
		},
	}
	sc := NewSchoolController()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := newTestContext("POST", "/register-school", jsonBody(tt.body), tt.claims)
			c.Request.Header.Set("Content-Type", "application/json")
			sc.RegisterSchool(c)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.JSONEq(t, tt.wantBody, recorder.Body.String())
		})
	}
}

func TestSchoolController_NoClaims(t *testing.T) {
	c, recorder := newTestContext("POST", "/register-school", jsonBody(`{"username":"a"}`), nil)
	NewSchoolController().RegisterSchool(c)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
