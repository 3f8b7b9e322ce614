// Package verifier is the HTTP client for the external OCR / fraud-scoring
// service. The service is a black box: it receives a document image plus the
// user-entered name and answers with extracted fields and a fraud analysis.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TamperingCheck is the CNN-based tampering verdict for a document image.
type TamperingCheck struct {
	IsTampered bool    `json:"is_tampered"`
	Confidence float64 `json:"confidence"`
}

// ConsistencyCheck is the NLP-based field-consistency verdict.
type ConsistencyCheck struct {
	IsConsistent bool    `json:"is_consistent"`
	Confidence   float64 `json:"confidence"`
}

type Validation struct {
	CNNTamperingCheck   TamperingCheck   `json:"cnn_tampering_check"`
	NLPConsistencyCheck ConsistencyCheck `json:"nlp_consistency_check"`
}

// ValidationResult is the response of the extraction endpoint.
type ValidationResult struct {
	Status        string            `json:"status"`
	ExtractedText map[string]string `json:"extracted_text"`
	Validation    Validation        `json:"validation"`
}

// Success reports whether the service accepted and extracted the document.
func (r *ValidationResult) Success() bool {
	return r.Status == "success"
}

// FraudAnalysis is the scoring result of the fraud-check endpoint.
type FraudAnalysis struct {
	FinalFraudScore     float64  `json:"final_fraud_score"`
	RiskReasons         []string `json:"risk_reasons"`
	NameMatchScore      float64  `json:"name_match_score"`
	IsDuplicateDocument bool     `json:"is_duplicate_document"`
}

type fraudResponse struct {
	FraudAnalysis FraudAnalysis `json:"fraud_analysis"`
}

type Client interface {
	ValidateDocument(ctx context.Context, file []byte, filename, userEnteredName string) (*ValidationResult, error)
	CheckFraud(ctx context.Context, nameOnDoc, userName, docNumber string) (*FraudAnalysis, error)
}

type client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) Client {
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *client) ValidateDocument(ctx context.Context, file []byte, filename, userEnteredName string) (*ValidationResult, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := part.Write(file); err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}
	if err := form.WriteField("userEnteredName", userEnteredName); err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate_document", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create validation request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var result ValidationResult
	if err := c.do(req, &result); err != nil {
		c.logger.Error("document validation call failed", zap.Error(err))
		return nil, fmt.Errorf("document validation call failed: %w", err)
	}

	c.logger.Debug("document validated",
		zap.String("status", result.Status),
		zap.Int("extracted_fields", len(result.ExtractedText)))
	return &result, nil
}

func (c *client) CheckFraud(ctx context.Context, nameOnDoc, userName, docNumber string) (*FraudAnalysis, error) {
	form := url.Values{}
	form.Set("name_on_doc", nameOnDoc)
	form.Set("user_name", userName)
	form.Set("doc_number", docNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/check_fraud",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create fraud-check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result fraudResponse
	if err := c.do(req, &result); err != nil {
		c.logger.Error("fraud check call failed", zap.Error(err))
		return nil, fmt.Errorf("fraud check call failed: %w", err)
	}

	c.logger.Debug("fraud check completed",
		zap.Float64("fraud_score", result.FraudAnalysis.FinalFraudScore),
		zap.Int("risk_reasons", len(result.FraudAnalysis.RiskReasons)))
	return &result.FraudAnalysis, nil
}

func (c *client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("verification service returned %d: %s", resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode verification service response: %w", err)
	}
	return nil
}
