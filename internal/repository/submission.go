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

// uniqueViolation is the postgres error code raised by the partial unique
// index that allows at most one Pending/Approved submission per user.
const uniqueViolation = "23505"

type SubmissionRepository interface {
	Create(ctx context.Context, s *model.Submission) (*model.Submission, error)
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	GetAll(ctx context.Context) ([]*model.Submission, error)
	GetByUser(ctx context.Context, userID string) ([]*model.SubmissionSummary, error)
	UpdateStatus(ctx context.Context, id string, status model.SubmissionStatus) (*model.Submission, error)
}

type submissionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSubmissionRepository(db *pgxpool.Pool, logger *zap.Logger) SubmissionRepository {
	return &submissionRepository{
		db:     db,
		logger: logger,
	}
}

const submissionColumns = `id, user_id, user_name, doc_type, status, fraud_score,
		risk_reasons, extracted_text, validation_checks, fraud_checks, created_at, updated_at`

func (r *submissionRepository) Create(ctx context.Context, s *model.Submission) (*model.Submission, error) {
	query := `
		INSERT INTO submissions
			(id, user_id, user_name, doc_type, status, fraud_score,
			 risk_reasons, extracted_text, validation_checks, fraud_checks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	created := *s
	err := r.db.QueryRow(ctx, query,
		s.ID, s.UserID, s.UserName, s.DocType, s.Status, s.FraudScore,
		s.RiskReasons, s.ExtractedText, s.ValidationChecks, s.FraudChecks,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, model.ErrDuplicateActiveSubmission
		}
		r.logger.Error("failed to create submission", zap.Error(err), zap.String("user_id", s.UserID))
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	return &created, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE id = $1
	`

	s, err := scanSubmission(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get submission", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return s, nil
}

func (r *submissionRepository) GetAll(ctx context.Context) ([]*model.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("failed to get all submissions", zap.Error(err))
		return nil, fmt.Errorf("failed to get all submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			r.logger.Error("failed to scan submission", zap.Error(err))
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}

	return submissions, rows.Err()
}

// GetByUser returns only the reduced self-service projection; extracted
// fields and validation internals are never exposed to the submitting user.
func (r *submissionRepository) GetByUser(ctx context.Context, userID string) ([]*model.SubmissionSummary, error) {
	query := `
		SELECT id, user_name, doc_type, status, fraud_score, risk_reasons, created_at
		FROM submissions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to get user submissions", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get user submissions: %w", err)
	}
	defer rows.Close()

	var summaries []*model.SubmissionSummary
	for rows.Next() {
		var s model.SubmissionSummary
		if err := rows.Scan(&s.ID, &s.UserName, &s.DocType, &s.Status, &s.FraudScore, &s.RiskReasons, &s.CreatedAt); err != nil {
			r.logger.Error("failed to scan submission summary", zap.Error(err))
			return nil, fmt.Errorf("failed to scan submission summary: %w", err)
		}
		summaries = append(summaries, &s)
	}

	return summaries, rows.Err()
}

// UpdateStatus moves a Pending submission to a terminal status. The guard in
// the WHERE clause keeps terminal records immutable under concurrent updates.
func (r *submissionRepository) UpdateStatus(ctx context.Context, id string, status model.SubmissionStatus) (*model.Submission, error) {
	query := `
		UPDATE submissions
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = 'Pending'
		RETURNING ` + submissionColumns

	s, err := scanSubmission(r.db.QueryRow(ctx, query, id, status))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("failed to update submission status", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to update submission status: %w", err)
	}

	// No Pending row matched: distinguish a missing id from an already
	// reviewed submission.
	var current model.SubmissionStatus
	err = r.db.QueryRow(ctx, `SELECT status FROM submissions WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to check submission status", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to check submission status: %w", err)
	}

	return nil, model.ErrStatusFinal
}

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	var s model.Submission
	err := row.Scan(
		&s.ID, &s.UserID, &s.UserName, &s.DocType, &s.Status, &s.FraudScore,
		&s.RiskReasons, &s.ExtractedText, &s.ValidationChecks, &s.FraudChecks,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
