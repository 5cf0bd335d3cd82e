package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// listProductsHandler returns the available catalog products
func (s *Server) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	products, err := s.catalog.ListAvailable(r.Context(), limit, offset)

	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    products,
	})
}

// getProductHandler returns a single product by SKU
func (s *Server) getProductHandler(w http.ResponseWriter, r *http.Request) {
	sku := mux.Vars(r)["sku"]

	product, err := s.catalog.GetBySKU(r.Context(), sku)

	if err != nil {
		s.respondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    product,
	})
}

// listDeliveryOptionsHandler returns the active delivery options
func (s *Server) listDeliveryOptionsHandler(w http.ResponseWriter, r *http.Request) {
	options, err := s.deliveryOptions.ListActive(r.Context())

	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to list delivery options")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    options,
	})
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
