package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/wayfare/pkg/errhttp"
	"github.com/ghuser/wayfare/pkg/httpx"
	appsvcs "github.com/ghuser/wayfare/services/booking/application/services"
	bookingdomain "github.com/ghuser/wayfare/services/booking/domain"
)

// DeleteBookingHandler handles DELETE /bookings/{id} requests.
type DeleteBookingHandler struct {
	svc *appsvcs.Services
}

// NewDeleteBookingHandler returns a DeleteBookingHandler backed by the given services.
func NewDeleteBookingHandler(svc *appsvcs.Services) *DeleteBookingHandler {
	return &DeleteBookingHandler{svc: svc}
}

// Execute cancels a booking. Cancellation is idempotent: an unknown or
// already-cancelled ID also yields 204 so retried deletes never fail.
//
//	@Summary		Cancel booking
//	@Description	Cancels a booking and restores its capacity; repeat cancellations are no-ops
//	@Tags			bookings
//	@Param			id	path	string	true	"Booking ID"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Router			/bookings/{id} [delete]
func (h *DeleteBookingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid booking id"})
		return
	}

	if _, err := h.svc.Booking.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, bookingdomain.ErrBookingNotFound) {
			httpx.NoContent(w)
			return
		}
		errhttp.WriteError(w, err)
		return
	}

	httpx.NoContent(w)
}
