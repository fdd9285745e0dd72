package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/wayfare/pkg/errhttp"
	"github.com/ghuser/wayfare/pkg/httpx"
	appsvcs "github.com/ghuser/wayfare/services/booking/application/services"
)

// GetBookingsHandler handles GET /bookings requests.
type GetBookingsHandler struct {
	svc *appsvcs.Services
}

// NewGetBookingsHandler returns a GetBookingsHandler backed by the given services.
func NewGetBookingsHandler(svc *appsvcs.Services) *GetBookingsHandler {
	return &GetBookingsHandler{svc: svc}
}

// Execute lists the ledger in insertion order.
//
//	@Summary		List bookings
//	@Description	Lists all bookings, oldest first
//	@Tags			bookings
//	@Produce		json
//	@Success		200	{array}	BookingResponse
//	@Router			/bookings [get]
func (h *GetBookingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.Booking.List(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = BookingToResponse(b)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// GetBookingHandler handles GET /bookings/{id} requests.
type GetBookingHandler struct {
	svc *appsvcs.Services
}

// NewGetBookingHandler returns a GetBookingHandler backed by the given services.
func NewGetBookingHandler(svc *appsvcs.Services) *GetBookingHandler {
	return &GetBookingHandler{svc: svc}
}

// Execute fetches one booking.
//
//	@Summary		Get booking
//	@Description	Fetches a single booking by ID
//	@Tags			bookings
//	@Produce		json
//	@Param			id	path		string	true	"Booking ID"
//	@Success		200	{object}	BookingResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/bookings/{id} [get]
func (h *GetBookingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid booking id"})
		return
	}

	booking, err := h.svc.Booking.GetByID(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, BookingToResponse(booking))
}
