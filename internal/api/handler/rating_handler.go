package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"netabase/internal/api/dto"
	"netabase/internal/api/repository"
	"netabase/internal/api/service"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

// RegisterRoutes registers the per-politician rating collection and the
// rating detail routes. Reads are public; writes go through the auth guard.
func (h *RatingHandler) RegisterRoutes(politicians, ratings *gin.RouterGroup, authMW gin.HandlerFunc) {
	politicians.GET("/:slug/ratings", h.List)
	politicians.POST("/:slug/ratings", authMW, h.CreateOrUpdate)

	ratings.GET("/:id", h.Get)
	ratings.PUT("/:id", authMW, h.Update)
	ratings.DELETE("/:id", authMW, h.Delete)
}

// CreateOrUpdate submits the caller's rating for a politician. The first
// submission creates (201); any later submission overwrites in place (200).
// POST /api/politicians/:slug/ratings
func (h *RatingHandler) CreateOrUpdate(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.CreateRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, created, err := h.ratingService.SubmitRating(
		c.Request.Context(), c.Param("slug"), userID.(string), req.Score, req.Comment,
	)
	if err != nil {
		h.renderError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, rating)
}

// List retrieves all ratings for a politician, paginated. No auth required.
// GET /api/politicians/:slug/ratings?score=&ordering=&page=&page_size=
func (h *RatingHandler) List(c *gin.Context) {
	p := dto.ParsePagination(c)

	filter := repository.RatingListFilter{
		Ordering: c.Query("ordering"),
		Offset:   p.Offset(),
		Limit:    p.PageSize,
	}
	if v := c.Query("score"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid score filter"})
			return
		}
		filter.Score = score
	}

	results, total, err := h.ratingService.ListRatings(c.Request.Context(), c.Param("slug"), filter)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPage(c, total, p, results))
}

// Get retrieves a rating by id. No auth required.
// GET /api/ratings/:id
func (h *RatingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating id"})
		return
	}

	rating, err := h.ratingService.GetRating(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// Update overwrites a rating. Only the rating's owner may do this.
// PUT /api/ratings/:id
func (h *RatingHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating id"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.CreateRatingDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.ratingService.UpdateRating(c.Request.Context(), id, userID.(string), req.Score, req.Comment)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// Delete removes a rating. Only the rating's owner may do this.
// DELETE /api/ratings/:id
func (h *RatingHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating id"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.ratingService.DeleteRating(c.Request.Context(), id, userID.(string)); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RatingHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPoliticianNotFound), errors.Is(err, service.ErrRatingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotRatingOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidScore):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
