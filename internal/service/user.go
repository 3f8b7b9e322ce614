package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kyc_onboarding_service/internal/auth"
	"kyc_onboarding_service/internal/config"
	"kyc_onboarding_service/internal/model"
	"kyc_onboarding_service/internal/repository"
)

// UserService handles self-service registration, login, and lookup. Login
// failures are deliberately indistinguishable (unknown email vs bad password).
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewUserService(repo repository.UserRepository, cfg *config.Config, logger *zap.Logger) UserService {
	return &userService{
		repo:      repo,
		jwtSecret: []byte(cfg.Auth.JWTSecret),
		tokenTTL:  cfg.Auth.TokenTTL,
		logger:    logger,
	}
}

func (s *userService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", model.Validationf("please fill all required fields")
	}
	if len(password) < 6 {
		return nil, "", model.Validationf("password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleUser,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(created.ID, auth.RoleUser, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err), zap.String("user_id", created.ID))
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", created.ID))
	return created, token, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", model.Validationf("please provide an email and password")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", model.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, auth.RoleUser, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err), zap.String("user_id", user.ID))
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return user, token, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, model.Validationf("user id cannot be empty")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrNotFound
	}
	return user, nil
}
