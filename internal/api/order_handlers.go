package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vaidashi/backoffice-api/internal/query"
	"github.com/vaidashi/backoffice-api/internal/service"
)

// getOrdersHandler returns a page of orders, newest first unless sorted otherwise
func (s *Server) getOrdersHandler(w http.ResponseWriter, r *http.Request) {
	opts := query.ParseOptions(r.URL.Query(), service.OrderSearchFields, "status")
	page, err := s.orderService.List(r.Context(), opts)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, page)
}

func (s *Server) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, err := s.orderService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, order)
}

// createOrderHandler places an order on behalf of a customer
func (s *Server) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	order, err := s.orderService.CreateOrder(r.Context(), actorFrom(r), req)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.created(w, "", order)
}

func (s *Server) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req service.ChangeOrderStatusInput
	if err := decodeJSON(r, &req); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	order, err := s.orderService.UpdateOrderStatus(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.ok(w, order)
}

func (s *Server) deleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.orderService.DeleteOrder(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.respondWithError(w, r, err)
		return
	}
	s.okMessage(w, "order deleted", nil)
}
