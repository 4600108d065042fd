package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/solterra-dev/solterra/api/internal/errors"
	"github.com/solterra-dev/solterra/api/internal/models"
	"github.com/solterra-dev/solterra/api/internal/services"
)

// LotHandler handles the public, read-only lot inventory endpoints.
// The payload shape matches what the tour engine's inventory client and
// the lot card page consume.
type LotHandler struct {
	service services.LotService
}

// NewLotHandler creates a new LotHandler instance.
func NewLotHandler(service services.LotService) *LotHandler {
	return &LotHandler{
		service: service,
	}
}

// LotData is the public representation of one lot.
type LotData struct {
	Slug        string  `json:"slug"`
	Number      string  `json:"number"`
	Status      string  `json:"status"`
	Currency    string  `json:"currency"`
	Dimensions  string  `json:"dimensions"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Area        float64 `json:"area"`
}

// inventoryCacheControl mirrors the upstream cache window on the lots
// endpoint. Status changes can take up to this long to reach the map.
const inventoryCacheControl = "public, max-age=60"

// List handles GET /api/v1/lots.
// Returns the full inventory as a JSON array.
func (h *LotHandler) List(c *gin.Context) {
	lots, err := h.service.ListLots(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to fetch lots", err)
		return
	}

	response := make([]LotData, 0, len(lots))
	for i := range lots {
		response = append(response, mapLotToDTO(&lots[i]))
	}

	c.Header("Cache-Control", inventoryCacheControl)
	c.JSON(http.StatusOK, response)
}

// GetBySlug handles GET /api/v1/lots/:slug.
func (h *LotHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	lot, err := h.service.GetLotBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, services.ErrLotNotFound) {
			apierrors.NotFound(c, "No lot found for this slug")
			return
		}
		if errors.Is(err, services.ErrInvalidLot) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to fetch lot", err)
		return
	}

	c.JSON(http.StatusOK, mapLotToDTO(lot))
}

// mapLotToDTO converts a Lot model to its public DTO.
func mapLotToDTO(lot *models.Lot) LotData {
	dto := LotData{
		Slug:       lot.Slug,
		Number:     lot.Number,
		Status:     string(lot.Status),
		Currency:   lot.Currency,
		Dimensions: lot.Dimensions,
		Price:      lot.Price,
		Area:       lot.Area,
	}
	if lot.Description != nil {
		dto.Description = *lot.Description
	}
	return dto
}
