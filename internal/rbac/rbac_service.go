package rbac

import (
	"context"
	"sort"
	"sync"

	"go-onboarding/internal/access"
	rbacerrors "go-onboarding/internal/rbac/errors"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Service interface {
	Load(ctx context.Context) error
	Enforce(req EnforceRequest) (bool, error)
	Permissions(role string) (RolePermissionsResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	loaded   bool
	logger   *zap.Logger
}

// NewService builds the route permission service. A nil repo serves the
// built-in defaults without touching the database.
func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) Load(ctx context.Context) error {
	perms := DefaultPermissions()
	if s.repo != nil {
		if err := s.repo.EnsureDefaults(ctx, perms); err != nil {
			s.logger.Error("rbac ensure defaults failed", zap.Error(err))
			return err
		}
		stored, err := s.repo.ListRolePermissions(ctx)
		if err != nil {
			s.logger.Error("rbac list role permissions failed", zap.Error(err))
			return err
		}
		perms = stored
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()

	for _, edge := range RoleInheritance {
		if _, err := s.enforcer.AddGroupingPolicy(string(edge[0]), string(edge[1])); err != nil {
			return err
		}
	}

	for _, p := range perms {
		if _, err := s.enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return err
		}
	}

	s.loaded = true
	s.logger.Info("rbac policy loaded",
		zap.Int("role_permissions", len(perms)),
		zap.Int("inheritance_edges", len(RoleInheritance)),
	)
	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false, rbacerrors.ErrPolicyNotLoaded
	}

	role := access.ParseRole(req.Role)
	if role == access.RoleUnknown {
		s.logger.Debug("rbac enforce unknown role", zap.String("role", req.Role))
		return false, nil
	}

	allowed, err := s.enforcer.Enforce(string(role), req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", string(role)),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", string(role)),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) Permissions(role string) (RolePermissionsResponse, error) {
	r := access.ParseRole(role)
	if r == access.RoleUnknown {
		return RolePermissionsResponse{}, rbacerrors.ErrUnknownRole
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return RolePermissionsResponse{}, rbacerrors.ErrPolicyNotLoaded
	}

	inherits, err := s.enforcer.GetImplicitRolesForUser(string(r))
	if err != nil {
		return RolePermissionsResponse{}, err
	}
	sort.Strings(inherits)

	rules, err := s.enforcer.GetImplicitPermissionsForUser(string(r))
	if err != nil {
		return RolePermissionsResponse{}, err
	}

	perms := make([]PermissionResponse, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		perms = append(perms, PermissionResponse{
			Resource:  rule[1],
			Action:    rule[2],
			Inherited: rule[0] != string(r),
		})
	}
	sort.Slice(perms, func(i, j int) bool {
		if perms[i].Resource != perms[j].Resource {
			return perms[i].Resource < perms[j].Resource
		}
		return perms[i].Action < perms[j].Action
	})

	return RolePermissionsResponse{
		Role:        string(r),
		Inherits:    inherits,
		Permissions: perms,
	}, nil
}
