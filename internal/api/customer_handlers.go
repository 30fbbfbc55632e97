package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/service"
)

type customerStatusRequest struct {
	Status models.CustomerStatus `json:"status"`
}

func (s *Server) getCustomersHandler(w http.ResponseWriter, r *http.Request) {
	opts := query.ParseOptions(r.URL.Query(), service.CustomerSearchFields, "status")
	page, err := s.customerService.List(r.Context(), opts)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, page)
}

func (s *Server) getCustomerHandler(w http.ResponseWriter, r *http.Request) {
	customer, err := s.customerService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, customer)
}

func (s *Server) createCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCustomerInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	customer, err := s.customerService.Create(r.Context(), req)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.created(w, "", customer)
}

// updateCustomerHandler serves both PUT and PATCH as a partial update
func (s *Server) updateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateCustomerInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	customer, err := s.customerService.Update(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, customer)
}

func (s *Server) updateCustomerStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req customerStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	customer, err := s.customerService.ChangeStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.okMessage(w, "customer status updated", customer)
}

func (s *Server) deleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.customerService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.okMessage(w, "customer deleted", nil)
}
