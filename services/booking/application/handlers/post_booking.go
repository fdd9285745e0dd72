package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/wayfare/pkg/errhttp"
	"github.com/ghuser/wayfare/pkg/httpx"
	pkgvalidator "github.com/ghuser/wayfare/pkg/validator"
	appsvcs "github.com/ghuser/wayfare/services/booking/application/services"
	"github.com/ghuser/wayfare/services/booking/domain/models"
	catalogmodels "github.com/ghuser/wayfare/services/catalog/domain/models"
)

// CreateBookingRequest is the request body for POST /bookings.
type CreateBookingRequest struct {
	ItemID   uuid.UUID `json:"item_id"  validate:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	Quantity int       `json:"quantity" validate:"required,gte=1" example:"3"`
} // @name CreateBookingRequest

// BookingResponse is the ledger representation returned by all booking endpoints.
type BookingResponse struct {
	ID          uuid.UUID           `json:"id"           example:"550e8400-e29b-41d4-a716-446655440000"`
	ItemID      uuid.UUID           `json:"item_id"      example:"123e4567-e89b-12d3-a456-426614174000"`
	Kind        string              `json:"kind"         example:"flight"`
	ItemName    string              `json:"item_name"    example:"New York to London"`
	Quantity    int                 `json:"quantity"     example:"3"`
	Rate        catalogmodels.Money `json:"rate"         swaggertype:"string" example:"459.99"`
	Total       catalogmodels.Money `json:"total"        swaggertype:"string" example:"1379.97"`
	Status      string              `json:"status"       example:"confirmed"`
	Attrs       map[string]string   `json:"attrs"`
	CreatedAt   time.Time           `json:"created_at"   example:"2024-01-15T10:30:00Z"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
} // @name BookingResponse

// BookingToResponse maps a ledger entry to its API representation.
func BookingToResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		ItemID:      b.ItemID,
		Kind:        string(b.Kind),
		ItemName:    b.ItemName,
		Quantity:    b.Quantity,
		Rate:        b.Rate,
		Total:       b.Total,
		Status:      string(b.Status),
		Attrs:       b.Attrs,
		CreatedAt:   b.CreatedAt,
		CancelledAt: b.CancelledAt,
	}
}

// PostBookingHandler handles POST /bookings requests.
type PostBookingHandler struct {
	svc *appsvcs.Services
}

// NewPostBookingHandler returns a PostBookingHandler backed by the given services.
func NewPostBookingHandler(svc *appsvcs.Services) *PostBookingHandler {
	return &PostBookingHandler{svc: svc}
}

// Execute commits a booking.
//
//	@Summary		Create booking
//	@Description	Validates, prices, and atomically commits a booking against available capacity
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateBookingRequest	true	"Booking request"
//	@Success		201		{object}	BookingResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/bookings [post]
func (h *PostBookingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateBookingRequest](w, r)
	if !ok {
		return
	}

	booking, err := h.svc.Booking.Commit(r.Context(), req.ItemID, req.Quantity)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, BookingToResponse(booking))
}
