package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/gorilla/mux"
)

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// adminAuthMiddleware guards the admin surface with a shared API key. An empty
// configured key disables the surface entirely.
func (s *Server) adminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Admin-Key")

		if s.adminAPIKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.adminAPIKey)) != 1 {
			s.respondWithError(w, http.StatusUnauthorized, "Invalid admin credentials")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// updateOrderStatusHandler moves an order along the fulfilment state machine
func (s *Server) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	var req updateOrderStatusRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Status == "" {
		s.respondWithJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Error:   "status is required",
			Field:   "status",
		})
		return
	}

	order, err := s.orders.AdvanceStatus(r.Context(), orderID, models.OrderStatus(req.Status))

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    models.NewOrderView(order, s.mediaBaseURL),
	})
}
