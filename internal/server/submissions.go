package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kyc_onboarding_service/internal/model"
	"kyc_onboarding_service/internal/service"
)

// maxUploadBytes caps document uploads. Scanned identity documents are
// photos; anything past this is rejected before it reaches the pipeline.
const maxUploadBytes = 10 << 20

type createSubmissionRequest struct {
	DocType          model.DocType          `json:"docType"`
	FraudScore       float64                `json:"fraudScore"`
	RiskReasons      []string               `json:"riskReasons"`
	ExtractedText    map[string]string      `json:"extractedText"`
	ValidationChecks model.ValidationChecks `json:"validationChecks"`
	FraudChecks      model.FraudChecks      `json:"fraudChecks"`
}

type updateStatusRequest struct {
	Status model.SubmissionStatus `json:"status"`
}

// handleVerify runs the full verification pipeline on an uploaded document:
// extraction, fraud scoring, and persistence of the resulting submission.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, r, model.Validationf("invalid multipart request: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, model.Validationf("document file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, model.Validationf("failed to read uploaded file"))
		return
	}

	docType := model.DocType(r.FormValue("docType"))

	submission, err := s.pipeline.Run(r.Context(), data, header.Filename, docType, user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, submission)
}

// handleCreateSubmission persists a submission whose verification results
// were produced elsewhere, bypassing the extraction pipeline.
func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, model.Validationf("invalid request body"))
		return
	}

	submission, err := s.submissions.Create(r.Context(), user, service.CreateSubmissionInput{
		DocType:          req.DocType,
		FraudScore:       req.FraudScore,
		RiskReasons:      req.RiskReasons,
		ExtractedText:    req.ExtractedText,
		ValidationChecks: req.ValidationChecks,
		FraudChecks:      req.FraudChecks,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, submission)
}

// handleSubmissionStatus returns the caller's own submission history, newest
// first, in the reduced projection.
func (s *Server) handleSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	summaries, err := s.submissions.ListForUser(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := s.submissions.ListAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, submissions)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, model.Validationf("invalid request body"))
		return
	}

	submission, err := s.submissions.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, submission)
}
