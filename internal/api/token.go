package api

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AnonymousUser namespaces local state when no token is configured.
const AnonymousUser = "anonymous"

// UserFromToken reads the user id from a bearer token without verifying its signature.
// The id only scopes local resume hints; the server still authenticates every call.
func UserFromToken(token string) (string, error) {
	if token == "" {
		return AnonymousUser, nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	for _, key := range []string{"sub", "userId", "id"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("token carries no user id claim")
}
