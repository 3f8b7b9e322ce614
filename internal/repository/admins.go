package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"kyc_onboarding_service/internal/model"
)

type AdminRepository interface {
	Create(ctx context.Context, a *model.Admin) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetByID(ctx context.Context, id string) (*model.Admin, error)
}

type adminRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAdminRepository(db *pgxpool.Pool, logger *zap.Logger) AdminRepository {
	return &adminRepository{
		db:     db,
		logger: logger,
	}
}

func (r *adminRepository) Create(ctx context.Context, a *model.Admin) (*model.Admin, error) {
	query := `
		INSERT INTO admins (id, name, email, password_hash, admin_id, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	created := *a
	err := r.db.QueryRow(ctx, query, a.ID, a.Name, a.Email, a.PasswordHash, a.AdminID, a.Role).
		Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, model.ErrEmailInUse
		}
		r.logger.Error("failed to create admin", zap.Error(err), zap.String("email", a.Email))
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return &created, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	query := `
		SELECT id, name, email, password_hash, admin_id, role, created_at, updated_at
		FROM admins
		WHERE email = $1
	`

	var a model.Admin
	err := r.db.QueryRow(ctx, query, email).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.AdminID, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get admin by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}

	return &a, nil
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	query := `
		SELECT id, name, email, password_hash, admin_id, role, created_at, updated_at
		FROM admins
		WHERE id = $1
	`

	var a model.Admin
	err := r.db.QueryRow(ctx, query, id).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.AdminID, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get admin", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return &a, nil
}
