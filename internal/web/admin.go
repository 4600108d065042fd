package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/solterra-dev/solterra/api/internal/models"
	"github.com/solterra-dev/solterra/api/internal/services"
)

// AdminPageHandler renders the password-gated lot administration screen:
// one page listing every lot with inline edit forms, plus a create form.
// Writes go through the same service layer as the JSON admin API.
type AdminPageHandler struct {
	service services.LotService
}

// NewAdminPageHandler creates an AdminPageHandler.
func NewAdminPageHandler(service services.LotService) *AdminPageHandler {
	return &AdminPageHandler{
		service: service,
	}
}

// Register installs the admin page routes behind the given auth
// middleware.
func (h *AdminPageHandler) Register(router *gin.Engine, auth gin.HandlerFunc) {
	admin := router.Group("/admin", auth)
	admin.GET("", h.Dashboard)
	admin.POST("/lots", h.Create)
	admin.POST("/lots/:id", h.Update)
	admin.POST("/lots/:id/delete", h.Delete)
}

// Dashboard handles GET /admin.
func (h *AdminPageHandler) Dashboard(c *gin.Context) {
	lots, err := h.service.ListLots(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "error interno")
		return
	}

	c.HTML(http.StatusOK, "admin", gin.H{
		"Title": "Administración de lotes",
		"Lots":  lots,
	})
}

// Create handles POST /admin/lots.
func (h *AdminPageHandler) Create(c *gin.Context) {
	lot, err := lotFromForm(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.CreateLot(c.Request.Context(), lot); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}

// Update handles POST /admin/lots/:id.
func (h *AdminPageHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "id inválido")
		return
	}

	lot, err := lotFromForm(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	lot.ID = id

	if err := h.service.UpdateLot(c.Request.Context(), lot); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}

// Delete handles POST /admin/lots/:id/delete.
func (h *AdminPageHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "id inválido")
		return
	}

	if err := h.service.DeleteLot(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}

// writeServiceError maps service sentinels onto plain-text page responses.
func (h *AdminPageHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLotNotFound):
		c.String(http.StatusNotFound, "lote no encontrado")
	case errors.Is(err, services.ErrSlugConflict):
		c.String(http.StatusConflict, "el slug ya está en uso")
	case errors.Is(err, services.ErrInvalidLot):
		c.String(http.StatusBadRequest, err.Error())
	default:
		c.String(http.StatusInternalServerError, "error interno")
	}
}

// lotFromForm builds a Lot from the admin form fields. Numeric parsing is
// the only validation done here; field-level rules live in the service.
func lotFromForm(c *gin.Context) (*models.Lot, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("price")), 64)
	if err != nil {
		return nil, errors.New("precio inválido")
	}
	area, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("area")), 64)
	if err != nil {
		return nil, errors.New("superficie inválida")
	}

	lot := &models.Lot{
		Slug:       strings.TrimSpace(c.PostForm("slug")),
		Number:     strings.TrimSpace(c.PostForm("number")),
		Status:     models.LotStatus(c.PostForm("status")),
		Currency:   strings.TrimSpace(c.PostForm("currency")),
		Dimensions: strings.TrimSpace(c.PostForm("dimensions")),
		Price:      price,
		Area:       area,
	}
	if desc := strings.TrimSpace(c.PostForm("description")); desc != "" {
		lot.Description = &desc
	}
	return lot, nil
}
