package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/ahsenkhancoding/backend/internal/auth"
	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/internal/repository"
	"github.com/gorilla/mux"
)

type addressRequest struct {
	ContactName  string  `json:"contact_name"`
	ContactPhone string  `json:"contact_phone"`
	AddressLine  string  `json:"address_line"`
	City         string  `json:"city"`
	Pincode      *string `json:"pincode"`
	IsDefault    bool    `json:"is_default"`
}

func (req *addressRequest) validate() (string, string) {
	switch {
	case req.ContactName == "":
		return "contact_name", "contact name is required"
	case req.ContactPhone == "":
		return "contact_phone", "contact phone is required"
	case req.AddressLine == "":
		return "address_line", "address line is required"
	case req.City == "":
		return "city", "city is required"
	}
	return "", ""
}

// listAddressesHandler returns the requesting user's saved addresses
func (s *Server) listAddressesHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	addresses, err := s.addressBook.ListForUser(r.Context(), userID)

	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to list addresses")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    addresses,
	})
}

// createAddressHandler saves a new address for the requesting user
func (s *Server) createAddressHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req addressRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if field, msg := req.validate(); msg != "" {
		s.respondWithJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Error: msg, Field: field})
		return
	}

	now := models.GetCurrentTime()
	address := &models.Address{
		ID:           models.NewID(),
		UserID:       userID,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		AddressLine:  req.AddressLine,
		City:         req.City,
		Pincode:      req.Pincode,
		IsDefault:    req.IsDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.addressBook.Create(r.Context(), address); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to create address")
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Data:    address,
	})
}

// updateAddressHandler updates one of the requesting user's addresses
func (s *Server) updateAddressHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	addressID := mux.Vars(r)["id"]

	var req addressRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if field, msg := req.validate(); msg != "" {
		s.respondWithJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Error: msg, Field: field})
		return
	}

	address := &models.Address{
		ID:           addressID,
		UserID:       userID,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		AddressLine:  req.AddressLine,
		City:         req.City,
		Pincode:      req.Pincode,
		IsDefault:    req.IsDefault,
	}

	if err := s.addressBook.Update(r.Context(), address); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Address not found")
			return
		}
		s.respondWithError(w, http.StatusInternalServerError, "Failed to update address")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    address,
	})
}

// deleteAddressHandler deletes one of the requesting user's addresses
func (s *Server) deleteAddressHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	addressID := mux.Vars(r)["id"]

	if err := s.addressBook.Delete(r.Context(), addressID, userID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Address not found")
			return
		}
		s.respondWithError(w, http.StatusInternalServerError, "Failed to delete address")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
	})
}
