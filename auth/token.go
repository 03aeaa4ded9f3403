package auth

import (
	"fmt"
	"time"

	"orbit-gateway/errors"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims defines the structure of the data stored inside the JWT.
type CustomClaims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// Gate is the identity gate: it maps an inbound connection credential to
// an authenticated user id, or rejects it. It also issues tokens for the
// login endpoints.
type Gate struct {
	secret        []byte
	tokenDuration time.Duration
}

func NewGate(secret string, tokenDuration time.Duration) *Gate {
	return &Gate{secret: []byte(secret), tokenDuration: tokenDuration}
}

// GenerateToken creates a signed JWT for a specific user.
func (g *Gate) GenerateToken(userID string, roles []string) (string, error) {
	claims := &CustomClaims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(g.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "orbit-gateway",
		},
	}

	// HS256 (HMAC with SHA256) signed with the server's secret key.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// Resolve validates the signature and expiration of a connection credential
// and returns the authenticated user id. Invoked once per connection,
// before any other operation is accepted.
func (g *Gate) Resolve(credential string) (string, error) {
	token, err := jwt.ParseWithClaims(credential, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return g.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", errors.ErrUnauthorized
	}
	return claims.UserID, nil
}
