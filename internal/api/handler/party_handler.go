package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"netabase/internal/api/dto"
	"netabase/internal/api/middleware"
	"netabase/internal/api/repository"
	"netabase/internal/api/service"
)

type PartyHandler struct {
	partySvc      service.PartyService
	politicianSvc service.PoliticianService
}

func NewPartyHandler(partySvc service.PartyService, politicianSvc service.PoliticianService) *PartyHandler {
	return &PartyHandler{partySvc: partySvc, politicianSvc: politicianSvc}
}

// RegisterRoutes registers party routes. Reads are public; the detail passes
// through the response cache; mutations are admin-only.
func (h *PartyHandler) RegisterRoutes(rg *gin.RouterGroup, detailCache, authMW gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET("/:slug", detailCache, h.Get)
	rg.GET("/:slug/politicians", h.Politicians)

	rg.POST("", authMW, middleware.RequireAdmin(), h.Create)
	rg.PUT("/:slug", authMW, middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:slug", authMW, middleware.RequireAdmin(), h.Delete)
}

// List returns parties, searchable and paginated.
// GET /api/parties?search=&ordering=&page=&page_size=
func (h *PartyHandler) List(c *gin.Context) {
	p := dto.ParsePagination(c)

	results, total, err := h.partySvc.List(c.Request.Context(), repository.PartyListFilter{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Offset:   p.Offset(),
		Limit:    p.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NewPage(c, total, p, results))
}

// Get returns one party.
// GET /api/parties/:slug
func (h *PartyHandler) Get(c *gin.Context) {
	party, err := h.partySvc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, party)
}

// Politicians lists the politicians of one party.
// GET /api/parties/:slug/politicians
func (h *PartyHandler) Politicians(c *gin.Context) {
	p := dto.ParsePagination(c)

	results, total, err := h.politicianSvc.List(c.Request.Context(), repository.PoliticianListFilter{
		PartySlug: c.Param("slug"),
		Search:    c.Query("search"),
		Ordering:  c.Query("ordering"),
		Offset:    p.Offset(),
		Limit:     p.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NewPage(c, total, p, results))
}

// Create adds a party. Admin only.
// POST /api/parties
func (h *PartyHandler) Create(c *gin.Context) {
	var req dto.CreatePartyDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	party, err := h.partySvc.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, party)
}

// Update mutates a party. Admin only; the slug never changes.
// PUT /api/parties/:slug
func (h *PartyHandler) Update(c *gin.Context) {
	var req dto.UpdatePartyDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	party, err := h.partySvc.Update(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, party)
}

// Delete removes a party and, by cascade, its politicians. Admin only.
// DELETE /api/parties/:slug
func (h *PartyHandler) Delete(c *gin.Context) {
	if err := h.partySvc.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PartyHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPartyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
