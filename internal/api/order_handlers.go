package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ahsenkhancoding/backend/internal/auth"
	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/internal/service"
	"github.com/gorilla/mux"
)

const maxMultipartMemory = 10 << 20 // 10 MiB

type createOrderRequest struct {
	Items               []service.OrderItemInput `json:"items"`
	AddressID           *string                  `json:"address_id"`
	ShippingName        string                   `json:"shipping_name"`
	ShippingPhoneNumber string                   `json:"shipping_phone_number"`
	ShippingAddressLine string                   `json:"shipping_address_line"`
	ShippingCity        string                   `json:"shipping_city"`
	ShippingPincode     *string                  `json:"shipping_pincode"`
	DeliveryOptionID    *int64                   `json:"delivery_option_id"`
	PaymentMethod       string                   `json:"payment_method"`
	PrescriptionURL     *string                  `json:"prescription_url"`
}

type verifyOTPRequest struct {
	OTPCode string `json:"otp_code"`
}

// createOrderHandler assembles a new order for the requesting user. It accepts
// a JSON body, or multipart form data when a prescription file accompanies the
// order; only a reference to the uploaded file is recorded.
func (s *Server) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createOrderRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := s.parseMultipartOrder(r, &req); err != nil {
			s.respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
		defer r.Body.Close()
	}

	order, err := s.orders.CreateOrder(r.Context(), userID, service.CreateOrderInput{
		Items:               req.Items,
		AddressID:           req.AddressID,
		ShippingName:        req.ShippingName,
		ShippingPhoneNumber: req.ShippingPhoneNumber,
		ShippingAddressLine: req.ShippingAddressLine,
		ShippingCity:        req.ShippingCity,
		ShippingPincode:     req.ShippingPincode,
		DeliveryOptionID:    req.DeliveryOptionID,
		PaymentMethod:       req.PaymentMethod,
		PrescriptionURL:     req.PrescriptionURL,
	})

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusCreated, ApiResponse{
		Success: true,
		Data:    models.NewOrderView(order, s.mediaBaseURL),
	})
}

// parseMultipartOrder reads the order fields from a multipart form. The JSON
// order body is carried in the "order" field; the optional prescription file
// in the "prescription_upload" field.
func (s *Server) parseMultipartOrder(r *http.Request, req *createOrderRequest) error {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return fmt.Errorf("invalid multipart payload")
	}

	orderField := r.FormValue("order")

	if orderField == "" {
		return fmt.Errorf("missing order field")
	}

	if err := json.Unmarshal([]byte(orderField), req); err != nil {
		return fmt.Errorf("invalid order field")
	}

	file, header, err := r.FormFile("prescription_upload")

	if err == http.ErrMissingFile {
		return nil
	}

	if err != nil {
		return fmt.Errorf("invalid prescription upload")
	}
	defer file.Close()

	// Only a reference is recorded; blob storage is handled out of band
	ref := fmt.Sprintf("uploads/prescriptions/%s%s", models.GenerateID("rx"), filepath.Ext(header.Filename))
	req.PrescriptionURL = &ref

	return nil
}

// verifyOTPHandler confirms an order with the submitted OTP code
func (s *Server) verifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	var req verifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	order, err := s.orders.ConfirmOrder(r.Context(), userID, orderID, req.OTPCode)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    models.NewOrderView(order, s.mediaBaseURL),
	})
}

// getOrderHandler returns one of the requesting user's orders
func (s *Server) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	orderID := mux.Vars(r)["id"]

	order, err := s.orders.GetOrder(r.Context(), userID, orderID)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    models.NewOrderView(order, s.mediaBaseURL),
	})
}

// listOrdersHandler returns the requesting user's orders, newest first
func (s *Server) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	limit, offset := paginationParams(r)

	orders, err := s.orders.ListOrders(r.Context(), userID, limit, offset)

	if err != nil {
		s.respondWithAppError(w, err)
		return
	}

	views := make([]*models.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, models.NewOrderView(order, s.mediaBaseURL))
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{
		Success: true,
		Data:    views,
	})
}
