package api

import (
	"net/http"

	"github.com/vaidashi/backoffice-api/internal/auth"
	"github.com/vaidashi/backoffice-api/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// loginHandler exchanges credentials for a bearer token
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	result, err := s.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.okMessage(w, "login successful", result)
}

// registerHandler files an administrator application for approval
func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	user, err := s.authService.Register(r.Context(), req)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.created(w, "registration submitted, please wait for approval", user)
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.PrincipalFrom(r.Context())
	if err := s.authService.Logout(r.Context(), claims); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.okMessage(w, "logged out", nil)
}

func (s *Server) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	if err := s.authService.ChangePassword(r.Context(), actorFrom(r), req.CurrentPassword, req.NewPassword); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.okMessage(w, "password changed", nil)
}

func (s *Server) getMeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.authService.Me(r.Context(), actorFrom(r))
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, user)
}

func (s *Server) updateMeHandler(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	user, err := s.authService.UpdateMe(r.Context(), actorFrom(r), req)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.okMessage(w, "profile updated", user)
}
