package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/solterra-dev/solterra/api/internal/errors"
	"github.com/solterra-dev/solterra/api/internal/middleware"
	"github.com/solterra-dev/solterra/api/internal/models"
	"github.com/solterra-dev/solterra/api/internal/services"
)

// AdminHandler handles the Basic-auth gated lot CRUD endpoints used by the
// admin dashboard.
type AdminHandler struct {
	service services.LotService
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(service services.LotService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

// LotRequest is the write payload for create and update operations.
type LotRequest struct {
	Slug        string  `json:"slug" binding:"required"`
	Number      string  `json:"number" binding:"required"`
	Status      string  `json:"status" binding:"required"`
	Currency    string  `json:"currency" binding:"required"`
	Dimensions  string  `json:"dimensions"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	Area        float64 `json:"area" binding:"gte=0"`
}

// AdminLotResponse wraps a lot for admin responses, including its id.
type AdminLotResponse struct {
	LotData
	ID int64 `json:"id"`
}

// List handles GET /api/v1/admin/lots.
func (h *AdminHandler) List(c *gin.Context) {
	lots, err := h.service.ListLots(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to fetch lots", err)
		return
	}

	response := make([]AdminLotResponse, 0, len(lots))
	for i := range lots {
		response = append(response, AdminLotResponse{
			LotData: mapLotToDTO(&lots[i]),
			ID:      lots[i].ID,
		})
	}

	c.JSON(http.StatusOK, response)
}

// Create handles POST /api/v1/admin/lots.
func (h *AdminHandler) Create(c *gin.Context) {
	var req LotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	lot := req.toModel()

	if err := h.service.CreateLot(c.Request.Context(), lot); err != nil {
		h.writeServiceError(c, err)
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Admin created lot", map[string]interface{}{
			"id":   lot.ID,
			"slug": lot.Slug,
		})
	}

	c.JSON(http.StatusCreated, AdminLotResponse{
		LotData: mapLotToDTO(lot),
		ID:      lot.ID,
	})
}

// Update handles PUT /api/v1/admin/lots/:id.
func (h *AdminHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierrors.BadRequest(c, "Invalid lot id", nil)
		return
	}

	var req LotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	lot := req.toModel()
	lot.ID = id

	if err := h.service.UpdateLot(c.Request.Context(), lot); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, AdminLotResponse{
		LotData: mapLotToDTO(lot),
		ID:      lot.ID,
	})
}

// Delete handles DELETE /api/v1/admin/lots/:id.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierrors.BadRequest(c, "Invalid lot id", nil)
		return
	}

	if err := h.service.DeleteLot(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// writeServiceError maps service sentinel errors onto HTTP responses.
func (h *AdminHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLotNotFound):
		apierrors.NotFound(c, "No lot found with this id")
	case errors.Is(err, services.ErrInvalidLot):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrSlugConflict):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalServerError(c, "Failed to persist lot", err)
	}
}

// toModel converts the request payload into a Lot model.
func (r *LotRequest) toModel() *models.Lot {
	lot := &models.Lot{
		Slug:       r.Slug,
		Number:     r.Number,
		Status:     models.LotStatus(r.Status),
		Currency:   r.Currency,
		Dimensions: r.Dimensions,
		Price:      r.Price,
		Area:       r.Area,
	}
	if r.Description != "" {
		desc := r.Description
		lot.Description = &desc
	}
	return lot
}
