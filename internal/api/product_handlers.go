package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vaidashi/backoffice-api/internal/models"
	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/service"
	"github.com/vaidashi/backoffice-api/pkg/errors"
)

type stockRequest struct {
	Stock *int `json:"stock"`
}

type productStatusRequest struct {
	Status models.ProductStatus `json:"status"`
}

func (s *Server) getProductsHandler(w http.ResponseWriter, r *http.Request) {
	opts := query.ParseOptions(r.URL.Query(), service.ProductSearchFields, "category", "status")
	page, err := s.productService.List(r.Context(), opts)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, page)
}

// getProductHandler returns the product with its review summary and latest reviews
func (s *Server) getProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := s.productService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, product)
}

func (s *Server) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProductInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	product, err := s.productService.Create(r.Context(), actorFrom(r), req)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.created(w, "", product)
}

func (s *Server) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateProductInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	product, err := s.productService.Update(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, product)
}

func (s *Server) updateProductStockHandler(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	if req.Stock == nil {
		s.respondWithError(w, r, errors.NewValidationError("stock is required").WithField("stock", "stock is required"))
		return
	}

	product, err := s.productService.ChangeStock(r.Context(), mux.Vars(r)["id"], *req.Stock)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, product)
}

func (s *Server) updateProductStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req productStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	product, err := s.productService.ChangeStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, product)
}

func (s *Server) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.productService.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.okMessage(w, "product deleted", nil)
}
