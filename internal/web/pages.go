// Package web serves the thin server-rendered site surface: marketing
// page, full-screen tour page, and the lot card page. Layout and styling
// are deliberately minimal; the one load-bearing piece is the tour page's
// open-card entry point that the engine's click bindings invoke.
package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solterra-dev/solterra/api/internal/models"
	"github.com/solterra-dev/solterra/api/internal/services"
)

// PageHandler renders the site pages.
type PageHandler struct {
	service      services.LotService
	tourEmbedURL string
}

// NewPageHandler creates a PageHandler. tourEmbedURL is the address of the
// externally hosted 360° tour that the tour page embeds.
func NewPageHandler(service services.LotService, tourEmbedURL string) *PageHandler {
	return &PageHandler{
		service:      service,
		tourEmbedURL: tourEmbedURL,
	}
}

// Register installs the page routes and template set on the router.
func (h *PageHandler) Register(router *gin.Engine) {
	router.SetHTMLTemplate(Templates())
	router.GET("/", h.Home)
	router.GET("/tour", h.Tour)
	router.GET("/card/:slug", h.Card)
}

// Home handles GET /.
func (h *PageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home", gin.H{
		"Title": "Solterra — Lotes residenciales",
	})
}

// Tour handles GET /tour.
func (h *PageHandler) Tour(c *gin.Context) {
	c.HTML(http.StatusOK, "tour", gin.H{
		"Title":        "Recorrido Virtual 360 — Solterra",
		"TourEmbedURL": h.tourEmbedURL,
	})
}

// Card handles GET /card/:slug, the page the authored hotspot links point
// at. With ?embed=true it renders without chrome for use inside the tour.
func (h *PageHandler) Card(c *gin.Context) {
	slug := c.Param("slug")

	lot, err := h.service.GetLotBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, services.ErrLotNotFound) {
			c.String(http.StatusNotFound, "lote no encontrado")
			return
		}
		c.String(http.StatusInternalServerError, "error interno")
		return
	}

	h.renderCard(c, lot, c.Query("embed") == "true")
}

func (h *PageHandler) renderCard(c *gin.Context, lot *models.Lot, embed bool) {
	c.HTML(http.StatusOK, "card", gin.H{
		"Title": "Lote " + lot.Number + " — Solterra",
		"Lot":   lot,
		"Embed": embed,
	})
}
