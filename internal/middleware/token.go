package middleware

import (
	"errors"
	"fmt"
	"strconv"

	"go-onboarding/internal/access"
	autherrors "go-onboarding/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
)

// ParseAccessToken validates an HS256 access token and returns the
// principal in its user_id and role claims.
func ParseAccessToken(secret, raw string) (access.Principal, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return access.Principal{}, autherrors.ErrTokenExpired
		}
		return access.Principal{}, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return access.Principal{}, autherrors.ErrInvalidToken
	}
	// refresh tokens only work on the refresh endpoint
	if typ, _ := claims["typ"].(string); typ == "refresh" {
		return access.Principal{}, autherrors.ErrInvalidToken
	}

	userID, ok := claimUserID(claims["user_id"])
	if !ok {
		return access.Principal{}, autherrors.ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	return access.NewPrincipal(userID, role), nil
}

func claimUserID(v any) (uint, bool) {
	switch id := v.(type) {
	case float64:
		if id < 1 || id != float64(uint(id)) {
			return 0, false
		}
		return uint(id), true
	case string:
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil || n == 0 {
			return 0, false
		}
		return uint(n), true
	default:
		return 0, false
	}
}
