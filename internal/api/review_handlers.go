package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/service"
)

func (s *Server) getReviewsHandler(w http.ResponseWriter, r *http.Request) {
	opts := query.ParseOptions(r.URL.Query(), service.ReviewSearchFields, "rating", "productId", "customerId")
	page, err := s.reviewService.List(r.Context(), opts)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, page)
}

func (s *Server) getReviewHandler(w http.ResponseWriter, r *http.Request) {
	review, err := s.reviewService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, review)
}

func (s *Server) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateReviewInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	review, err := s.reviewService.Create(r.Context(), req)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.created(w, "", review)
}

func (s *Server) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.reviewService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.okMessage(w, "review deleted", nil)
}
