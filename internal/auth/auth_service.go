package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-onboarding/internal/access"
	autherrors "go-onboarding/internal/auth/errors"
	"go-onboarding/internal/shared/contextutil"
	"go-onboarding/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type Service interface {
	Login(ctx context.Context, email, password string) (AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (AuthResponse, error)
	Me(ctx context.Context, p access.Principal) (user.UserResponse, error)
}

type service struct {
	userRepo user.Repository
	secret   string
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(userRepo user.Repository, jwtSecret string, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{userRepo: userRepo, secret: jwtSecret, now: time.Now, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	u, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		return AuthResponse{}, err
	}

	// users seeded without a password cannot log in
	if u.PasswordHash == "" {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login rejected",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Uint("user_id", u.ID),
		)
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	return s.issue(*u)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (AuthResponse, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if typ, _ := claims["typ"].(string); typ != tokenTypeRefresh {
		return AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	id, ok := claims["user_id"].(float64)
	if !ok || id < 1 {
		return AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	// the role is reloaded so a demotion takes effect on the next refresh
	u, err := s.userRepo.FindByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrUserNotFound
		}
		return AuthResponse{}, err
	}

	return s.issue(*u)
}

func (s *service) Me(ctx context.Context, p access.Principal) (user.UserResponse, error) {
	if !p.HasUser() {
		return user.UserResponse{}, autherrors.ErrTokenNotFound
	}

	u, err := s.userRepo.FindByID(ctx, *p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.UserResponse{}, autherrors.ErrUserNotFound
		}
		return user.UserResponse{}, err
	}
	return user.MapUser(*u), nil
}

func (s *service) issue(u user.User) (AuthResponse, error) {
	accessToken, err := s.generateToken(u, tokenTypeAccess, AccessTokenTTL)
	if err != nil {
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(u, tokenTypeRefresh, RefreshTokenTTL)
	if err != nil {
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return AuthResponse{
		User:         user.MapUser(u),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *service) generateToken(u user.User, typ string, ttl time.Duration) (string, error) {
	if s.secret == "" {
		return "", errors.New("jwt secret is not configured")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"role":    u.Role,
		"typ":     typ,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *service) parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}
