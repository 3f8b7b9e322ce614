// Package auth issues and verifies the bearer credentials used by the HTTP
// layer. Tokens are HS256 JWTs carrying the principal id and role.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"kyc_onboarding_service/internal/model"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims extends the registered claims with the principal's role.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

func GenerateToken(principalID, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Role: role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken returns the principal id and role encoded in tokenString.
// Expired, malformed, or wrongly signed tokens yield ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (string, string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", "", model.ErrInvalidToken
	}

	if !token.Valid {
		return "", "", model.ErrInvalidToken
	}

	return claims.Subject, claims.Role, nil
}
