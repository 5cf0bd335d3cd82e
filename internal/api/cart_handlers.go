package api

import (
	"encoding/json"
	"net/http"

	"github.com/ahsenkhancoding/backend/internal/auth"
	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/gorilla/mux"
)

type addCartItemRequest struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// getCartHandler returns the requesting user's cart, creating an empty one on
// first access
func (s *Server) getCartHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	cart, err := s.cart.GetCart(r.Context(), userID)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    models.NewCartView(cart),
	})
}

// clearCartHandler removes every item from the requesting user's cart
func (s *Server) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := s.cart.Clear(r.Context(), userID); err != nil {
		s.respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// addCartItemHandler adds a product to the requesting user's cart. Adding a
// product already in the cart increases the existing line's quantity.
func (s *Server) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	req := addCartItemRequest{Quantity: 1}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	cart, err := s.cart.AddItem(r.Context(), userID, req.SKU, req.Quantity)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Data:    models.NewCartView(cart),
	})
}

// updateCartItemHandler sets the quantity of a cart line
func (s *Server) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	itemID := mux.Vars(r)["id"]

	var req updateCartItemRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	cart, err := s.cart.UpdateItemQuantity(r.Context(), userID, itemID, req.Quantity)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    models.NewCartView(cart),
	})
}

// removeCartItemHandler deletes a cart line and returns the remaining cart
func (s *Server) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	itemID := mux.Vars(r)["id"]

	cart, err := s.cart.RemoveItem(r.Context(), userID, itemID)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    models.NewCartView(cart),
	})
}
