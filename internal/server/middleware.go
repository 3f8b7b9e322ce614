package server

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"kyc_onboarding_service/internal/auth"
	"kyc_onboarding_service/internal/model"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	adminContextKey contextKey = "admin"
)

func userFromContext(ctx context.Context) *model.User {
	u, _ := ctx.Value(userContextKey).(*model.User)
	return u
}

func adminFromContext(ctx context.Context) *model.Admin {
	a, _ := ctx.Value(adminContextKey).(*model.Admin)
	return a
}

// bearerToken extracts the credential from the Authorization header, falling
// back to the "token" cookie set at login.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return token
		}
	}
	if c, err := r.Cookie(tokenCookieName); err == nil {
		return c.Value
	}
	return ""
}

// requireUser resolves a fresh user principal per request. A valid token
// whose subject no longer exists is rejected the same way as a bad token.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, model.ErrUnauthorized)
			return
		}

		id, role, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if role != auth.RoleUser {
			s.writeError(w, r, model.ErrForbidden)
			return
		}

		user, err := s.users.GetByID(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if user == nil {
			s.writeError(w, r, model.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, model.ErrUnauthorized)
			return
		}

		id, role, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if role != auth.RoleAdmin {
			s.writeError(w, r, model.ErrForbidden)
			return
		}

		admin, err := s.admins.GetByID(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if admin == nil {
			s.writeError(w, r, model.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), adminContextKey, admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// corsMiddleware allows credentialed requests from the configured origins
// only. Requests from other origins get no CORS headers at all.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && slices.Contains(s.allowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// instrument records a request counter and latency histogram per handler.
func (s *Server) instrument(name string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		handler(wrapped, r)

		s.requestDuration.WithLabelValues(name, r.Method).Observe(time.Since(start).Seconds())
		s.requestsTotal.WithLabelValues(name, r.Method, strconv.Itoa(wrapped.status)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
