package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/plantap/internal/core/domain"
	"github.com/custodia-labs/plantap/internal/core/ports/driving"
	"github.com/custodia-labs/plantap/internal/logger"
)

// Handlers serves the API routes.
type Handlers struct {
	catalog driving.CatalogService
	capture driving.CaptureService
	origin  string
}

// NewHandlers creates handlers. capture may be nil, which disables
// /capture and /status.
func NewHandlers(catalog driving.CatalogService, capture driving.CaptureService, origin string) *Handlers {
	return &Handlers{catalog: catalog, capture: capture, origin: origin}
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Projects lists projects with a stored catalog.
func (h *Handlers) Projects(c *gin.Context) {
	projects, err := h.catalog.Projects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if projects == nil {
		projects = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Tree returns the grouped catalog, filtered by ?q=.
func (h *Handlers) Tree(c *gin.Context) {
	tree, err := h.catalog.Tree(c.Request.Context(), c.Param("pid"), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// Disciplines returns the ordered discipline list.
func (h *Handlers) Disciplines(c *gin.Context) {
	list, err := h.catalog.Disciplines(c.Request.Context(), c.Param("pid"))
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []domain.Discipline{}
	}
	c.JSON(http.StatusOK, gin.H{"disciplines": list})
}

// Drawing returns one drawing by number.
func (h *Handlers) Drawing(c *gin.Context) {
	d, err := h.catalog.Find(c.Request.Context(), c.Param("pid"), c.Param("num"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Status reports the capture pipeline state of a project.
func (h *Handlers) Status(c *gin.Context) {
	status, err := h.capture.Status(c.Request.Context(), c.Param("pid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Capture accepts one envelope from the configured origin.
func (h *Handlers) Capture(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if h.origin != "" && !domain.SameOrigin(origin, h.origin) {
		respondError(c, fmt.Errorf("%w: %q", domain.ErrCrossOrigin, origin))
		return
	}

	var env domain.CaptureEnvelope
	if err := c.ShouldBindJSON(&env); err != nil {
		respondError(c, fmt.Errorf("%w: %w", domain.ErrInvalidPayload, err))
		return
	}
	// The request origin is authoritative over what the body claims.
	if origin != "" {
		env.Origin = origin
	}

	if err := h.capture.Accept(c.Request.Context(), env); err != nil {
		logger.Debug("api: capture rejected: %v", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}
