package server

import (
	"encoding/json"
	"net/http"
	"time"

	"kyc_onboarding_service/internal/auth"
	"kyc_onboarding_service/internal/model"
)

const tokenCookieName = "token"

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	AdminID  string `json:"adminId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	AdminID  string `json:"adminId"`
}

type userAuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *Server) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.tokenTTL),
		HttpOnly: true,
		Secure:   s.production,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleUserRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, model.Validationf("invalid request body"))
		return
	}

	user, token, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.setTokenCookie(w, token)
	s.writeJSON(w, http.StatusCreated, userAuthResponse{User: user, Token: token})
}

func (s *Server) handleUserLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, model.Validationf("invalid request body"))
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.setTokenCookie(w, token)
	s.writeJSON(w, http.StatusOK, userAuthResponse{User: user, Token: token})
}

// handleLoggedIn is a lightweight cookie probe: it answers a bare boolean and
// never errors, so dashboards can poll it cheaply.
func (s *Server) handleLoggedIn(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		s.writeJSON(w, http.StatusOK, false)
		return
	}
	if _, _, err := auth.ParseToken(token, s.jwtSecret); err != nil {
		s.writeJSON(w, http.StatusOK, false)
		return
	}
	s.writeJSON(w, http.StatusOK, true)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.production,
		SameSite: http.SameSiteLaxMode,
	})
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	s.writeJSON(w, http.StatusOK, user)
}
