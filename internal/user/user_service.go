package user

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"go-onboarding/internal/access"
	"go-onboarding/internal/shared/contextutil"
	usererrors "go-onboarding/internal/user/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	DirectReportsKeyPrefix = "users:reports:"
	directReportsTTL       = 10 * time.Minute
)

func GetDirectReportsKey(managerID uint) string {
	return DirectReportsKeyPrefix + strconv.FormatUint(uint64(managerID), 10)
}

type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id uint) (UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, id uint, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, id uint) error

	DirectReports(ctx context.Context, managerID uint) (DirectReportsResponse, error)
	ResolveCurrentUser(ctx context.Context, email string) (access.Principal, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	s.logger.Debug("get all users requested", zap.String("request_id", contextutil.GetRequestID(ctx)))

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all users failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return MapUsers(users), nil
}

func (s *service) GetByID(ctx context.Context, id uint) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	return MapUser(*u), nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Info("create user requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	role, err := parseRole(req.Role)
	if err != nil {
		return UserResponse{}, err
	}

	if req.ManagerID != nil {
		if err := s.ensureManagerExists(ctx, *req.ManagerID); err != nil {
			return UserResponse{}, err
		}
	}

	u := &User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:  strings.TrimSpace(req.FullName),
		Role:      string(role),
		ManagerID: req.ManagerID,
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("failed to hash password", zap.Error(err))
			return UserResponse{}, err
		}
		u.PasswordHash = string(hashed)
	}

	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("create user persist failed", zap.String("request_id", rid), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	s.invalidateReports(ctx, u.ManagerID)

	s.logger.Info("create user success", zap.String("request_id", rid), zap.Uint("user_id", u.ID))
	return MapUser(*u), nil
}

func (s *service) Update(ctx context.Context, id uint, req UpdateUserRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update user requested", zap.String("request_id", rid), zap.Uint("user_id", id))

	if req.ManagerID != nil && *req.ManagerID == id {
		return UserResponse{}, usererrors.ErrSelfManager
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	role := access.Role(u.Role)
	if req.Role != "" {
		if role, err = parseRole(req.Role); err != nil {
			return UserResponse{}, err
		}
	}

	if req.ManagerID != nil {
		if err := s.ensureManagerExists(ctx, *req.ManagerID); err != nil {
			return UserResponse{}, err
		}
	}

	previousManager := u.ManagerID
	u.FullName = strings.TrimSpace(req.FullName)
	u.Role = string(role)
	u.ManagerID = req.ManagerID

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("update user persist failed", zap.String("request_id", rid), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	s.invalidateReports(ctx, previousManager, u.ManagerID, &u.ID)

	s.logger.Info("update user success", zap.String("request_id", rid), zap.Uint("user_id", id))
	return MapUser(*u), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	rid := contextutil.GetRequestID(ctx)

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete user failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateReports(ctx, u.ManagerID, &u.ID)

	s.logger.Info("delete user success", zap.String("request_id", rid), zap.Uint("user_id", id))
	return nil
}

func (s *service) DirectReports(ctx context.Context, managerID uint) (DirectReportsResponse, error) {
	manager, err := s.repo.FindByID(ctx, managerID)
	if err != nil {
		return DirectReportsResponse{}, mapRepositoryError(err)
	}

	cacheKey := GetDirectReportsKey(managerID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var reports []UserResponse
			if json.Unmarshal([]byte(cached), &reports) == nil {
				return DirectReportsResponse{Manager: MapUser(*manager), DirectReports: reports}, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		users, err := s.repo.FindByManager(ctx, managerID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		reports := MapUsers(users)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(reports); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, directReportsTTL).Err(); err != nil {
					s.logger.Warn("cache direct reports failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}

		return reports, nil
	})
	if err != nil {
		s.logger.Error("get direct reports failed", zap.Uint("manager_id", managerID), zap.Error(err))
		return DirectReportsResponse{}, err
	}

	return DirectReportsResponse{
		Manager:       MapUser(*manager),
		DirectReports: v.([]UserResponse),
	}, nil
}

// ResolveCurrentUser finds the acting user by email, or the first user
// when email is empty.
func (s *service) ResolveCurrentUser(ctx context.Context, email string) (access.Principal, error) {
	var (
		u   *User
		err error
	)

	if email != "" {
		u, err = s.repo.FindByEmail(ctx, strings.ToLower(email))
	} else {
		u, err = s.repo.First(ctx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.Principal{}, usererrors.ErrNoUsers
		}
	}
	if err != nil {
		return access.Principal{}, mapRepositoryError(err)
	}

	return access.NewPrincipal(u.ID, u.Role), nil
}

func (s *service) ensureManagerExists(ctx context.Context, managerID uint) error {
	if _, err := s.repo.FindByID(ctx, managerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrManagerNotFound
		}
		return err
	}
	return nil
}

func (s *service) invalidateReports(ctx context.Context, managerIDs ...*uint) {
	if s.rdb == nil {
		return
	}

	keys := make([]string, 0, len(managerIDs))
	seen := make(map[uint]bool, len(managerIDs))
	for _, id := range managerIDs {
		if id == nil || seen[*id] {
			continue
		}
		seen[*id] = true
		keys = append(keys, GetDirectReportsKey(*id))
	}
	if len(keys) == 0 {
		return
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate direct reports cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

func parseRole(raw string) (access.Role, error) {
	role := access.ParseRole(raw)
	if role == access.RoleUnknown {
		return "", usererrors.ErrInvalidRole
	}
	return role, nil
}

func MapUser(u User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		Role:             u.Role,
		ManagerID:        u.ManagerID,
		OnboardingPlanID: u.OnboardingPlanID,
		CreatedAt:        u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func MapUsers(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = MapUser(u)
	}
	return resp
}
