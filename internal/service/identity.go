package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/utils"
)

// RegisterInput carries the registration form.  Only Username uniqueness is
// checked; every other field may be empty.
type RegisterInput struct {
	FullName  string
	Username  string
	Password  string
	Phone     string
	Email     string
	BirthDate string
}

// IdentityService registers and authenticates users.
type IdentityService struct {
	users *repository.UserRepo
	cost  int
	log   *zap.Logger
}

// NewIdentityService builds an IdentityService hashing secrets with the
// given bcrypt cost.
func NewIdentityService(users *repository.UserRepo, bcryptCost int, log *zap.Logger) *IdentityService {
	return &IdentityService{users: users, cost: bcryptCost, log: log}
}

// Register creates a user with the "user" role and returns its ID.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (uint64, error) {
	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.users.Create(ctx, model.User{
		FullName:  in.FullName,
		Username:  in.Username,
		Password:  hash,
		Phone:     in.Phone,
		Email:     in.Email,
		BirthDate: in.BirthDate,
		Role:      model.RoleUser,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, ErrDuplicateLogin
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", zap.Uint64("user_id", id), zap.String("username", in.Username))
	return id, nil
}

// Authenticate returns the user whose login and secret both match, or nil
// when either does not.  The caller cannot tell the two cases apart.  Only
// store failures produce an error.  A plaintext credential left by an older
// database file is accepted on exact match and re-stored as a hash.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.MatchStoredPassword(u.Password, password) {
		return nil, nil
	}
	if !utils.IsPasswordHash(u.Password) {
		s.upgradePassword(ctx, &u, password)
	}
	return &u, nil
}

// upgradePassword hashes a legacy plaintext credential.  Failure is logged;
// the login still succeeds and the upgrade is retried next time.
func (s *IdentityService) upgradePassword(ctx context.Context, u *model.User, password string) {
	hash, err := utils.HashPassword(password, s.cost)
	if err == nil {
		err = s.users.UpdatePassword(ctx, u.ID, hash)
	}
	if err != nil {
		s.log.Warn("password upgrade failed", zap.Uint64("user_id", u.ID), zap.Error(err))
		return
	}
	u.Password = hash
	s.log.Info("legacy password upgraded", zap.Uint64("user_id", u.ID))
}

// GetUser loads a user by ID; a missing user yields repository.ErrNotFound.
func (s *IdentityService) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every account for the admin users table.
func (s *IdentityService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}
