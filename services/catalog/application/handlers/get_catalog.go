package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/wayfare/pkg/errhttp"
	"github.com/ghuser/wayfare/pkg/httpx"
	appsvcs "github.com/ghuser/wayfare/services/catalog/application/services"
	"github.com/ghuser/wayfare/services/catalog/domain/models"
	"github.com/ghuser/wayfare/services/catalog/domain/repositories"
)

// ItemResponse is the catalog representation returned by all read endpoints.
type ItemResponse struct {
	ID            uuid.UUID         `json:"id"             example:"123e4567-e89b-12d3-a456-426614174000"`
	Kind          string            `json:"kind"           example:"flight"`
	Name          string            `json:"name"           example:"New York to London"`
	Description   string            `json:"description"    example:"Direct transatlantic flight"`
	Location      string            `json:"location"       example:"New York"`
	Category      string            `json:"category"       example:"international"`
	Rate          models.Money      `json:"rate"           swaggertype:"string" example:"459.99"`
	RateBasis     string            `json:"rate_basis"     example:"per_seat"`
	TotalCapacity int               `json:"total_capacity" example:"150"`
	Available     int               `json:"available"      example:"42"`
	SoldOut       bool              `json:"sold_out"       example:"false"`
	Attrs         map[string]string `json:"attrs"`
	CreatedAt     time.Time         `json:"created_at"     example:"2024-01-15T10:30:00Z"`
} // @name ItemResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"item not found"`
} // @name ErrorResponse

// ItemToResponse maps a domain Item to its API representation.
func ItemToResponse(i *models.Item) ItemResponse {
	return ItemResponse{
		ID:            i.ID,
		Kind:          string(i.Kind),
		Name:          i.Name,
		Description:   i.Description,
		Location:      i.Location,
		Category:      i.Category,
		Rate:          i.Rate,
		RateBasis:     string(i.RateBasis),
		TotalCapacity: i.TotalCapacity,
		Available:     i.Available,
		SoldOut:       i.SoldOut(),
		Attrs:         i.Attrs,
		CreatedAt:     i.CreatedAt,
	}
}

// GetCatalogHandler handles GET /catalog requests.
type GetCatalogHandler struct {
	svc *appsvcs.Services
}

// NewGetCatalogHandler returns a GetCatalogHandler backed by the given services.
func NewGetCatalogHandler(svc *appsvcs.Services) *GetCatalogHandler {
	return &GetCatalogHandler{svc: svc}
}

// Execute lists catalog inventory, optionally filtered.
//
//	@Summary		List catalog
//	@Description	Lists bookable inventory, filterable by kind, category, origin, and destination
//	@Tags			catalog
//	@Produce		json
//	@Param			kind		query		string	false	"Inventory kind"	Enums(event, bus, flight, car)
//	@Param			category	query		string	false	"Category filter"
//	@Param			origin		query		string	false	"Route origin (bus and flight inventory)"
//	@Param			destination	query		string	false	"Route destination (bus and flight inventory)"
//	@Success		200			{array}		ItemResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/catalog [get]
func (h *GetCatalogHandler) Execute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	kind := models.Kind(q.Get("kind"))
	if kind != "" && !kind.Valid() {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown inventory kind"})
		return
	}

	items, err := h.svc.Catalog.List(r.Context(), repositories.Filter{
		Kind:        kind,
		Category:    q.Get("category"),
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	resp := make([]ItemResponse, len(items))
	for i, item := range items {
		resp[i] = ItemToResponse(item)
	}
	httpx.JSON(w, http.StatusOK, resp)
}
