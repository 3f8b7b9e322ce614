package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"kyc_onboarding_service/internal/model"
	"kyc_onboarding_service/internal/repository"
	"kyc_onboarding_service/internal/verifier"
)

// docNumberKeys is the prioritized list of extracted-field names tried when
// selecting the document number.
var docNumberKeys = []string{"AadhaarNumber", "PANNumber", "DLNumber"}

// PipelineService orchestrates the verification pipeline: extraction, fraud
// check, persistence, notification. Any upstream failure aborts with nothing
// persisted and no event emitted.
type PipelineService interface {
	Run(ctx context.Context, file []byte, filename string, docType model.DocType, user *model.User) (*model.Submission, error)
}

type pipelineService struct {
	verifier    verifier.Client
	cache       repository.ExtractionCacheRepository
	submissions SubmissionService
	logger      *zap.Logger
}

func NewPipelineService(vc verifier.Client, cache repository.ExtractionCacheRepository, submissions SubmissionService, logger *zap.Logger) PipelineService {
	return &pipelineService{
		verifier:    vc,
		cache:       cache,
		submissions: submissions,
		logger:      logger,
	}
}

func (s *pipelineService) Run(ctx context.Context, file []byte, filename string, docType model.DocType, user *model.User) (*model.Submission, error) {
	if len(file) == 0 {
		return nil, model.Validationf("document file is required")
	}
	if !docType.IsValid() {
		return nil, model.Validationf("unknown document type: %s", docType)
	}
	if user == nil || user.Name == "" {
		return nil, model.Validationf("user is required")
	}

	validation, err := s.extract(ctx, file, filename, user.Name)
	if err != nil {
		return nil, err
	}
	if !validation.Success() {
		s.logger.Warn("document extraction rejected by verification service",
			zap.String("user_id", user.ID), zap.String("status", validation.Status))
		return nil, model.ErrExtractionFailed
	}

	docNumber := selectField(validation.ExtractedText, docNumberKeys...)
	nameOnDoc := selectField(validation.ExtractedText, "Name")

	analysis, err := s.verifier.CheckFraud(ctx, nameOnDoc, user.Name, docNumber)
	if err != nil {
		return nil, fmt.Errorf("fraud check failed: %w", err)
	}

	submission, err := s.submissions.Create(ctx, user, CreateSubmissionInput{
		DocType:       docType,
		FraudScore:    analysis.FinalFraudScore,
		RiskReasons:   analysis.RiskReasons,
		ExtractedText: validation.ExtractedText,
		ValidationChecks: model.ValidationChecks{
			IsTampered:            validation.Validation.CNNTamperingCheck.IsTampered,
			TamperingConfidence:   validation.Validation.CNNTamperingCheck.Confidence,
			IsConsistent:          validation.Validation.NLPConsistencyCheck.IsConsistent,
			ConsistencyConfidence: validation.Validation.NLPConsistencyCheck.Confidence,
		},
		FraudChecks: model.FraudChecks{
			NameMatchScore: analysis.NameMatchScore,
			IsDuplicate:    analysis.IsDuplicateDocument,
		},
	})
	if err != nil {
		return nil, err
	}

	return submission, nil
}

// extract consults the content-hash cache before calling the verification
// service. Cache failures are logged and ignored: the round-trip is the
// fallback, never the other way around.
func (s *pipelineService) extract(ctx context.Context, file []byte, filename, userName string) (*verifier.ValidationResult, error) {
	sum := sha256.Sum256(file)
	hash := hex.EncodeToString(sum[:])

	if cached, err := s.cache.GetByHash(ctx, hash); err != nil {
		s.logger.Warn("extraction cache lookup failed", zap.Error(err))
	} else if cached != nil {
		s.logger.Info("extraction served from cache", zap.String("file_hash", hash))
		return cached, nil
	}

	result, err := s.verifier.ValidateDocument(ctx, file, filename, userName)
	if err != nil {
		return nil, fmt.Errorf("document validation failed: %w", err)
	}

	if result.Success() {
		if err := s.cache.Put(ctx, hash, result); err != nil {
			s.logger.Warn("extraction cache write failed", zap.Error(err))
		}
	}

	return result, nil
}

func selectField(fields map[string]string, keys ...string) string {
	for _, key := range keys {
		if v, ok := fields[key]; ok && v != "" {
			return v
		}
	}
	return ""
}
