package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/service"
)

type roleRequest struct {
	Role models.Role `json:"role"`
}

type userStatusRequest struct {
	Status models.UserStatus `json:"status"`
}

type rejectRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

func (s *Server) getUsersHandler(w http.ResponseWriter, r *http.Request) {
	opts := query.ParseOptions(r.URL.Query(), service.UserSearchFields, "status", "role")
	page, err := s.userService.List(r.Context(), opts)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, page)
}

func (s *Server) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.userService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, user)
}

func (s *Server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	user, err := s.userService.Create(r.Context(), req)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.created(w, "", user)
}

func (s *Server) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	user, err := s.userService.Update(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, user)
}

func (s *Server) updateUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	user, err := s.userService.ChangeRole(r.Context(), mux.Vars(r)["id"], req.Role)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, user)
}

func (s *Server) updateUserStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req userStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	user, err := s.userService.ChangeStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, user)
}

func (s *Server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.userService.Delete(r.Context(), actorFrom(r), mux.Vars(r)["id"]); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.okMessage(w, "user deleted", nil)
}

func (s *Server) approveUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := s.userService.Approve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.okMessage(w, "administrator approved", user)
}

func (s *Server) rejectUserHandler(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	user, err := s.userService.Reject(r.Context(), mux.Vars(r)["id"], req.RejectionReason)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.okMessage(w, "application rejected", user)
}
