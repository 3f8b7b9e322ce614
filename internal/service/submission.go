package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kyc_onboarding_service/internal/messaging"
	"kyc_onboarding_service/internal/model"
	"kyc_onboarding_service/internal/repository"
)

// CreateSubmissionInput carries the write-once payload of a new submission.
type CreateSubmissionInput struct {
	DocType          model.DocType
	FraudScore       float64
	RiskReasons      []string
	ExtractedText    map[string]string
	ValidationChecks model.ValidationChecks
	FraudChecks      model.FraudChecks
}

// SubmissionService owns the submission lifecycle: creation under the
// one-active-submission-per-user invariant and the Pending → Approved/Rejected
// transition.
type SubmissionService interface {
	Create(ctx context.Context, user *model.User, input CreateSubmissionInput) (*model.Submission, error)
	ListAll(ctx context.Context) ([]*model.Submission, error)
	ListForUser(ctx context.Context, userID string) ([]*model.SubmissionSummary, error)
	UpdateStatus(ctx context.Context, id string, status model.SubmissionStatus) (*model.Submission, error)
}

type submissionService struct {
	repo   repository.SubmissionRepository
	nats   messaging.NATSClient
	logger *zap.Logger
}

func NewSubmissionService(repo repository.SubmissionRepository, nats messaging.NATSClient, logger *zap.Logger) SubmissionService {
	return &submissionService{
		repo:   repo,
		nats:   nats,
		logger: logger,
	}
}

func (s *submissionService) Create(ctx context.Context, user *model.User, input CreateSubmissionInput) (*model.Submission, error) {
	if user == nil || user.ID == "" {
		return nil, model.Validationf("user is required")
	}
	if !input.DocType.IsValid() {
		return nil, model.Validationf("unknown document type: %s", input.DocType)
	}
	if input.FraudScore < 0 || input.FraudScore > 100 {
		return nil, model.Validationf("fraud score must be in [0, 100], got %v", input.FraudScore)
	}

	riskReasons := input.RiskReasons
	if riskReasons == nil {
		riskReasons = []string{}
	}

	submission := &model.Submission{
		ID:               uuid.New().String(),
		UserID:           user.ID,
		UserName:         user.Name,
		DocType:          input.DocType,
		Status:           model.SubmissionStatusPending,
		FraudScore:       input.FraudScore,
		RiskReasons:      riskReasons,
		ExtractedText:    input.ExtractedText,
		ValidationChecks: input.ValidationChecks,
		FraudChecks:      input.FraudChecks,
	}

	created, err := s.repo.Create(ctx, submission)
	if err != nil {
		return nil, err
	}

	s.logger.Info("submission created",
		zap.String("submission_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.Float64("fraud_score", created.FraudScore))

	// Best-effort notification: the record is already persisted, so a broker
	// hiccup must not fail the request.
	if err := s.nats.PublishSubmissionCreated(ctx, created); err != nil {
		s.logger.Error("failed to publish submission created event",
			zap.Error(err), zap.String("submission_id", created.ID))
	}

	return created, nil
}

func (s *submissionService) ListAll(ctx context.Context) ([]*model.Submission, error) {
	return s.repo.GetAll(ctx)
}

func (s *submissionService) ListForUser(ctx context.Context, userID string) ([]*model.SubmissionSummary, error) {
	if userID == "" {
		return nil, model.Validationf("user id cannot be empty")
	}
	return s.repo.GetByUser(ctx, userID)
}

func (s *submissionService) UpdateStatus(ctx context.Context, id string, status model.SubmissionStatus) (*model.Submission, error) {
	if id == "" {
		return nil, model.Validationf("submission id cannot be empty")
	}
	// Only the two terminal states are accepted at this boundary; a reviewed
	// submission can never go back to Pending.
	if !status.IsTerminal() {
		return nil, model.ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("submission status updated",
		zap.String("submission_id", updated.ID),
		zap.String("status", string(updated.Status)))

	if err := s.nats.PublishSubmissionUpdated(ctx, updated); err != nil {
		s.logger.Error("failed to publish submission updated event",
			zap.Error(err), zap.String("submission_id", updated.ID))
	}

	return updated, nil
}
