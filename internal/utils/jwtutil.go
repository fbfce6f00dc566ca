package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is how long a login token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// Tokens are unsigned (alg "none"). They carry identity for the gateway but
// prove nothing; anyone can mint one.

type Claims struct {
	UserId   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func GenerateToken(userID int64, username string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		UserId:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   username,
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	s, err := t.SignedString(jwt.UnsafeAllowNoneSignatureType)
	return s, exp, err
}

// ParseToken decodes a token from GenerateToken and rejects it once expired.
func ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return jwt.UnsafeAllowNoneSignatureType, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodNone.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if claims.ExpiresAt == nil {
			return nil, errors.New("token has no expiry")
		}
		return claims, nil
	}

	return nil, errors.New("Invalid Token")
}
