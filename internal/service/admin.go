package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kyc_onboarding_service/internal/auth"
	"kyc_onboarding_service/internal/config"
	"kyc_onboarding_service/internal/model"
	"kyc_onboarding_service/internal/repository"
)

// AdminService handles reviewer accounts. Registration is gated by the
// allow-listed admin ID issued out of band, not by an existing admin session.
type AdminService interface {
	Register(ctx context.Context, name, email, password, adminID string) (*model.Admin, string, error)
	Login(ctx context.Context, email, password, adminID string) (*model.Admin, string, error)
	GetByID(ctx context.Context, id string) (*model.Admin, error)
}

type adminService struct {
	repo      repository.AdminRepository
	adminIDs  []string
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAdminService(repo repository.AdminRepository, cfg *config.Config, logger *zap.Logger) AdminService {
	return &adminService{
		repo:      repo,
		adminIDs:  cfg.Auth.AdminIDs,
		jwtSecret: []byte(cfg.Auth.JWTSecret),
		tokenTTL:  cfg.Auth.TokenTTL,
		logger:    logger,
	}
}

func (s *adminService) Register(ctx context.Context, name, email, password, adminID string) (*model.Admin, string, error) {
	if name == "" || email == "" || password == "" || adminID == "" {
		return nil, "", model.Validationf("please fill all required fields, including admin ID")
	}
	if !slices.Contains(s.adminIDs, adminID) {
		return nil, "", model.Validationf("invalid admin ID provided")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.Admin{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		AdminID:      adminID,
		Role:         auth.RoleAdmin,
	}

	created, err := s.repo.Create(ctx, admin)
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(created.ID, auth.RoleAdmin, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err), zap.String("admin_id", created.ID))
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("admin registered", zap.String("admin_id", created.ID))
	return created, token, nil
}

func (s *adminService) Login(ctx context.Context, email, password, adminID string) (*model.Admin, string, error) {
	if email == "" || password == "" || adminID == "" {
		return nil, "", model.Validationf("please provide email, password, and admin ID")
	}

	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if admin == nil || !auth.CheckPassword(admin.PasswordHash, password) || admin.AdminID != adminID {
		return nil, "", model.ErrUnauthorized
	}

	token, err := auth.GenerateToken(admin.ID, auth.RoleAdmin, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err), zap.String("admin_id", admin.ID))
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("admin logged in", zap.String("admin_id", admin.ID))
	return admin, token, nil
}

func (s *adminService) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	if id == "" {
		return nil, model.Validationf("admin id cannot be empty")
	}

	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, model.ErrNotFound
	}
	return admin, nil
}
