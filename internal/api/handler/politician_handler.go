package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"netabase/internal/api/dto"
	"netabase/internal/api/middleware"
	"netabase/internal/api/repository"
	"netabase/internal/api/service"
)

type PoliticianHandler struct {
	svc service.PoliticianService
}

func NewPoliticianHandler(svc service.PoliticianService) *PoliticianHandler {
	return &PoliticianHandler{svc: svc}
}

// RegisterRoutes registers politician routes. Reads are public; the list
// passes through the response cache; mutations are admin-only.
func (h *PoliticianHandler) RegisterRoutes(rg *gin.RouterGroup, listCache, authMW gin.HandlerFunc) {
	rg.GET("", listCache, h.List)
	rg.GET("/:slug", h.Detail)

	rg.POST("", authMW, middleware.RequireAdmin(), h.Create)
	rg.PUT("/:slug", authMW, middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:slug", authMW, middleware.RequireAdmin(), h.Delete)
	rg.POST("/:slug/initiatives", authMW, middleware.RequireAdmin(), h.AddInitiative)
	rg.POST("/:slug/promises", authMW, middleware.RequireAdmin(), h.AddPromise)
}

// List returns politicians with read-time aggregates.
// GET /api/politicians?party=&is_active=&location=&search=&ordering=&page=
func (h *PoliticianHandler) List(c *gin.Context) {
	p := dto.ParsePagination(c)

	filter := repository.PoliticianListFilter{
		PartySlug: c.Query("party"),
		Location:  c.Query("location"),
		Search:    c.Query("search"),
		Ordering:  c.Query("ordering"),
		Offset:    p.Offset(),
		Limit:     p.PageSize,
	}
	if v := c.Query("is_active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid is_active filter"})
			return
		}
		filter.IsActive = &active
	}

	results, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NewPage(c, total, p, results))
}

// Detail serves the cached detail payload and bumps the view counter.
// GET /api/politicians/:slug
func (h *PoliticianHandler) Detail(c *gin.Context) {
	payload, err := h.svc.GetDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// Create adds a politician. Admin only.
// POST /api/politicians
func (h *PoliticianHandler) Create(c *gin.Context) {
	var req dto.CreatePoliticianDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	politician, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, politician)
}

// Update mutates a politician. Admin only; the slug never changes.
// PUT /api/politicians/:slug
func (h *PoliticianHandler) Update(c *gin.Context) {
	var req dto.UpdatePoliticianDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	politician, err := h.svc.Update(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, politician)
}

// Delete removes a politician and its child records. Admin only.
// DELETE /api/politicians/:slug
func (h *PoliticianHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddInitiative attaches an initiative to a politician. Admin only.
// POST /api/politicians/:slug/initiatives
func (h *PoliticianHandler) AddInitiative(c *gin.Context) {
	var req dto.CreateInitiativeDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	initiative, err := h.svc.AddInitiative(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, initiative)
}

// AddPromise attaches a promise to a politician. Admin only.
// POST /api/politicians/:slug/promises
func (h *PoliticianHandler) AddPromise(c *gin.Context) {
	var req dto.CreatePromiseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	promise, err := h.svc.AddPromise(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, promise)
}

func (h *PoliticianHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPoliticianNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
