package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"kyc_onboarding_service/internal/model"
)

// errorResponse is the envelope for every non-2xx body. Stack is populated
// only outside production deployments.
type errorResponse struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps domain errors onto HTTP statuses and writes the envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	resp := errorResponse{Message: err.Error()}
	if status == http.StatusInternalServerError {
		resp.Message = "internal server error"
	}
	if !s.production {
		resp.Stack = string(debug.Stack())
	}
	s.writeJSON(w, status, resp)
}

func statusFor(err error) int {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, model.ErrDuplicateActiveSubmission),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrEmailInUse):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthorized), errors.Is(err, model.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrStatusFinal):
		return http.StatusConflict
	case errors.Is(err, model.ErrExtractionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
