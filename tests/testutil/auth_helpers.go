package testutil

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// SignTestToken mints a bearer token the way the identity provider would:
// HS256 over the shared secret with the caller id in "sub" and their role
// in "role".
func SignTestToken(t *testing.T, secret, subject, role string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return signed
}
