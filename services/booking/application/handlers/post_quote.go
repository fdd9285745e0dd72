package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/wayfare/pkg/errhttp"
	"github.com/ghuser/wayfare/pkg/httpx"
	pkgvalidator "github.com/ghuser/wayfare/pkg/validator"
	appsvcs "github.com/ghuser/wayfare/services/booking/application/services"
	"github.com/ghuser/wayfare/services/catalog/domain/models"
)

// QuoteRequest is the request body for POST /bookings/quote.
type QuoteRequest struct {
	ItemID   uuid.UUID `json:"item_id"  validate:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	Quantity int       `json:"quantity" validate:"required,gte=1" example:"3"`
} // @name QuoteRequest

// QuoteResponse is a priced preview. Quantity may be lower than requested
// when per-booking caps or availability clamp it; nothing is reserved.
type QuoteResponse struct {
	ItemID    uuid.UUID    `json:"item_id"    example:"123e4567-e89b-12d3-a456-426614174000"`
	ItemName  string       `json:"item_name"  example:"New York to London"`
	Quantity  int          `json:"quantity"   example:"3"`
	Rate      models.Money `json:"rate"       swaggertype:"string" example:"459.99"`
	RateBasis string       `json:"rate_basis" example:"per_seat"`
	Total     models.Money `json:"total"      swaggertype:"string" example:"1379.97"`
} // @name QuoteResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"insufficient capacity"`
} // @name ErrorResponse

// PostQuoteHandler handles POST /bookings/quote requests.
type PostQuoteHandler struct {
	svc *appsvcs.Services
}

// NewPostQuoteHandler returns a PostQuoteHandler backed by the given services.
func NewPostQuoteHandler(svc *appsvcs.Services) *PostQuoteHandler {
	return &PostQuoteHandler{svc: svc}
}

// Execute prices a prospective booking without reserving capacity.
//
//	@Summary		Quote booking
//	@Description	Validates and prices a prospective booking; nothing is reserved
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		QuoteRequest	true	"Quote request"
//	@Success		200		{object}	QuoteResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/bookings/quote [post]
func (h *PostQuoteHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[QuoteRequest](w, r)
	if !ok {
		return
	}

	q, err := h.svc.Booking.Quote(r.Context(), req.ItemID, req.Quantity)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, QuoteResponse{
		ItemID:    q.Item.ID,
		ItemName:  q.Item.Name,
		Quantity:  q.Quantity,
		Rate:      q.Item.Rate,
		RateBasis: string(q.Item.RateBasis),
		Total:     q.Total,
	})
}
