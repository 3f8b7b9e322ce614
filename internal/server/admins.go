package server

import (
	"encoding/json"
	"net/http"

	"kyc_onboarding_service/internal/model"
)

type adminAuthResponse struct {
	Admin *model.Admin `json:"admin"`
	Token string       `json:"token"`
}

func (s *Server) handleAdminRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, model.Validationf("invalid request body"))
		return
	}

	admin, token, err := s.admins.Register(r.Context(), req.Name, req.Email, req.Password, req.AdminID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.setTokenCookie(w, token)
	s.writeJSON(w, http.StatusCreated, adminAuthResponse{Admin: admin, Token: token})
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, model.Validationf("invalid request body"))
		return
	}

	admin, token, err := s.admins.Login(r.Context(), req.Email, req.Password, req.AdminID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.setTokenCookie(w, token)
	s.writeJSON(w, http.StatusOK, adminAuthResponse{Admin: admin, Token: token})
}
