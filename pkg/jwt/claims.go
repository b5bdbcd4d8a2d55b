package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims are the OpenID Connect claims of a Google id_token
type IdentityClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

// DisplayName returns the best human readable label for the identity
func (c *IdentityClaims) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Email != "":
		return c.Email
	}
	return c.Subject
}
