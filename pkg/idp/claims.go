package idp

import "fmt"

// Claims is the user-info document returned by the identity provider.
type Claims map[string]interface{}

// String returns the claim as a string, or "" if it is absent or null.
func (c Claims) String(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
