package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"kyc_onboarding_service/internal/verifier"
)

// ExtractionCacheRepository stores verification-service extraction results
// keyed by the SHA-256 of the uploaded file, so a byte-identical re-upload
// skips the OCR round-trip.
type ExtractionCacheRepository interface {
	GetByHash(ctx context.Context, hash string) (*verifier.ValidationResult, error)
	Put(ctx context.Context, hash string, result *verifier.ValidationResult) error
}

type extractionCacheRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewExtractionCacheRepository(db *pgxpool.Pool, logger *zap.Logger) ExtractionCacheRepository {
	return &extractionCacheRepository{
		db:     db,
		logger: logger,
	}
}

// GetByHash returns the cached extraction result, or nil on a cache miss.
func (r *extractionCacheRepository) GetByHash(ctx context.Context, hash string) (*verifier.ValidationResult, error) {
	query := `SELECT result FROM extraction_cache WHERE file_hash = $1`

	var result verifier.ValidationResult
	err := r.db.QueryRow(ctx, query, hash).Scan(&result)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to read extraction cache", zap.String("hash", hash), zap.Error(err))
		return nil, fmt.Errorf("failed to read extraction cache for hash %s: %w", hash, err)
	}

	r.logger.Debug("extraction result served from cache", zap.String("hash", hash))
	return &result, nil
}

func (r *extractionCacheRepository) Put(ctx context.Context, hash string, result *verifier.ValidationResult) error {
	query := `
		INSERT INTO extraction_cache (file_hash, result)
		VALUES ($1, $2)
		ON CONFLICT (file_hash) DO UPDATE SET result = EXCLUDED.result
	`

	if _, err := r.db.Exec(ctx, query, hash, result); err != nil {
		r.logger.Error("failed to write extraction cache", zap.String("hash", hash), zap.Error(err))
		return fmt.Errorf("failed to write extraction cache for hash %s: %w", hash, err)
	}

	return nil
}
