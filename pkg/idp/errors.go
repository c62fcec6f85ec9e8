package idp

import "github.com/pkg/errors"

var (
	// ErrInvalidCredentials is returned when the token endpoint rejects a password grant.
	ErrInvalidCredentials = errors.New("invalid user credentials")
	// ErrInvalidToken is returned for any non-200 user-info response.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUnavailable covers transport failures and unreadable identity provider responses.
	ErrUnavailable = errors.New("identity provider unavailable")
)

func IsInvalidCredentials(err error) bool {
	return errors.Cause(err) == ErrInvalidCredentials
}

func IsInvalidToken(err error) bool {
	return errors.Cause(err) == ErrInvalidToken
}

func IsUnavailable(err error) bool {
	return errors.Cause(err) == ErrUnavailable
}
