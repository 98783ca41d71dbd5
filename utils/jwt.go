package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// GenerateJWT signs an HS256 token carrying the user's id and email.
func GenerateJWT(userID uint, email, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not set")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"exp":    time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseJWT validates tokenString and returns its user id and email claims.
// userID is 0 when the token predates the userId claim.
func ParseJWT(tokenString, secret string) (userID uint, email string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	if v, ok := claims["userId"].(float64); ok && v > 0 {
		userID = uint(v)
	}
	email, _ = claims["email"].(string)
	if userID == 0 && email == "" {
		return 0, "", ErrInvalidToken
	}
	return userID, email, nil
}
