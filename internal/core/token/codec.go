// Package token signs and verifies the compact JWTs that carry session
// claims. The codec owns expiration enforcement; callers never re-check exp.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookinghub/user-service/internal/core/domain"
)

// Token type tags embedded in claims. The tag is signed but not enforced on
// verification; see SessionService for the resolution contract.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the signed payload of a token.
type Claims struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a process-wide HS256 secret. The
// secret is loaded once at startup; rotating it invalidates every
// outstanding token.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Sign produces a compact signed token for username/role with an absolute
// expiration ttl from now.
func (c *Codec) Sign(username string, role domain.Role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username:  username,
		Role:      string(role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims. Failures are
// classified as domain.ErrTokenExpired when the embedded expiration has
// passed, domain.ErrTokenInvalid for everything else (bad signature,
// malformed structure, wrong algorithm).
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
