package models

import (
	"github.com/mitchellh/mapstructure"
)

// User is the profile shape exchanged by the gateway endpoints.
type User struct {
	Username  string `json:"username" mapstructure:"preferred_username"`
	Email     string `json:"email" mapstructure:"email"`
	FirstName string `json:"first_name" mapstructure:"given_name"`
	LastName  string `json:"last_name" mapstructure:"family_name"`
	Role      string `json:"role" mapstructure:"-"`
}

// UserFromClaims copies the standard OpenID profile claims into a User.
// Role is never taken from the claims, it is left empty.
func UserFromClaims(claims map[string]interface{}) (User, error) {
	var u User
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &u,
	})
	if err != nil {
		return u, err
	}
	err = decoder.Decode(claims)
	u.Role = ""
	return u, err
}

func SampleUsers() []User {
	return []User{
		{Username: "teacher1", Email: "teacher1@example.com", FirstName: "Alice", LastName: "Smith", Role: "teacher"},
		{Username: "student1", Email: "student1@example.com", FirstName: "Bob", LastName: "Brown", Role: "student"},
	}
}
