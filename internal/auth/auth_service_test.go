package auth_test

import (
	"context"
	"errors"
	"testing"

	"go-onboarding/internal/access"
	"go-onboarding/internal/auth"
	autherrors "go-onboarding/internal/auth/errors"
	"go-onboarding/internal/middleware"
	"go-onboarding/internal/user"
	userMock "go-onboarding/internal/user/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const secret = "test-secret"

func TestService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := userMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, secret)
	ctx := context.Background()

	pw, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	morgan := &user.User{ID: 2, Email: "morgan@example.com", FullName: "Morgan", Role: "manager", PasswordHash: string(pw)}

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().FindByEmail(ctx, "morgan@example.com").Return(morgan, nil)

		resp, err := service.Login(ctx, " morgan@example.com ", "password123")
		require.NoError(t, err)
		assert.Equal(t, uint(2), resp.User.ID)
		assert.NotEmpty(t, resp.RefreshToken)

		p, err := middleware.ParseAccessToken(secret, resp.AccessToken)
		require.NoError(t, err)
		assert.True(t, p.Is(2))
		assert.Equal(t, access.RoleManager, p.Role)

		_, err = middleware.ParseAccessToken(secret, resp.RefreshToken)
		assert.True(t, errors.Is(err, autherrors.ErrInvalidToken))
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo.EXPECT().FindByEmail(ctx, "morgan@example.com").Return(morgan, nil)

		_, err := service.Login(ctx, "morgan@example.com", "nope")
		assert.True(t, errors.Is(err, autherrors.ErrInvalidCredentials))
	})

	t.Run("unknown email", func(t *testing.T) {
		mockRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.Login(ctx, "ghost@example.com", "password123")
		assert.True(t, errors.Is(err, autherrors.ErrInvalidCredentials))
	})

	t.Run("user without password", func(t *testing.T) {
		mockRepo.EXPECT().FindByEmail(ctx, "sam@example.com").
			Return(&user.User{ID: 3, Email: "sam@example.com", Role: "user"}, nil)

		_, err := service.Login(ctx, "sam@example.com", "")
		assert.True(t, errors.Is(err, autherrors.ErrInvalidCredentials))
	})
}

func TestService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := userMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, secret)
	ctx := context.Background()

	pw, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	sam := &user.User{ID: 3, Email: "sam@example.com", Role: "manager", PasswordHash: string(pw)}

	mockRepo.EXPECT().FindByEmail(ctx, sam.Email).Return(sam, nil)
	login, err := service.Login(ctx, sam.Email, "password123")
	require.NoError(t, err)

	t.Run("reloads role", func(t *testing.T) {
		demoted := *sam
		demoted.Role = "user"
		mockRepo.EXPECT().FindByID(ctx, uint(3)).Return(&demoted, nil)

		resp, err := service.RefreshToken(ctx, login.RefreshToken)
		require.NoError(t, err)

		p, err := middleware.ParseAccessToken(secret, resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, access.RoleUser, p.Role)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := service.RefreshToken(ctx, login.AccessToken)
		assert.True(t, errors.Is(err, autherrors.ErrInvalidRefreshToken))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.RefreshToken(ctx, "not-a-jwt")
		assert.True(t, errors.Is(err, autherrors.ErrInvalidRefreshToken))
	})
}

func TestService_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := userMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, secret)
	ctx := context.Background()

	mockRepo.EXPECT().FindByID(ctx, uint(4)).Return(&user.User{ID: 4, Email: "bo@example.com"}, nil)
	me, err := service.Me(ctx, access.NewPrincipal(4, "user"))
	require.NoError(t, err)
	assert.Equal(t, "bo@example.com", me.Email)

	_, err = service.Me(ctx, access.ResolvePrincipal("", ""))
	assert.True(t, errors.Is(err, autherrors.ErrTokenNotFound))
}
