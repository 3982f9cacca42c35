package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"netabase/internal/api/dto"
	"netabase/internal/api/service"
	"netabase/internal/config"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	authService service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// RegisterRoutes registers the auth endpoints. Credential endpoints sit
// behind the per-IP rate limiter.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, rateLimitMW gin.HandlerFunc) {
	rg.POST("/register", rateLimitMW, h.Register)
	rg.POST("/login", rateLimitMW, h.Login)
	rg.POST("/google", rateLimitMW, h.GoogleLogin)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", authMW, h.Me)
}

// setRefreshCookie delivers the refresh token in an HTTP-only cookie scoped
// to the auth endpoints, never in the response body.
func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		refreshCookieName,
		token,
		int(h.cfg.RefreshTokenTTL.Seconds()),
		"/api/auth",
		"",
		h.cfg.IsProduction(),
		true,
	)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/api/auth", "", h.cfg.IsProduction(), true)
}

func (h *AuthHandler) authResponse(accessToken, userID, username string) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.cfg.AccessTokenTTL.Seconds()),
		UserID:      userID,
		Username:    username,
	}
}

// Register creates an account and logs it in.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, refreshToken, user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameInUse), errors.Is(err, service.ErrEmailInUse):
			c.JSON(http.StatusConflict, gin.H{"error": "Account creation failed"})
		case errors.Is(err, service.ErrInvalidUsername), errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.setRefreshCookie(c, refreshToken)
	c.JSON(http.StatusCreated, h.authResponse(accessToken, user.ID, user.Username))
}

// Login authenticates with username and password.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, refreshToken, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	h.setRefreshCookie(c, refreshToken)
	c.JSON(http.StatusOK, h.authResponse(accessToken, user.ID, user.Username))
}

// GoogleLogin authenticates with a Google ID token.
// POST /api/auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, refreshToken, user, err := h.authService.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid Google token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.setRefreshCookie(c, refreshToken)
	c.JSON(http.StatusOK, h.authResponse(accessToken, user.ID, user.Username))
}

// Refresh rotates the refresh token from the cookie and returns a new
// access token.
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing refresh token"})
		return
	}

	accessToken, newRefreshToken, err := h.authService.Refresh(c.Request.Context(), cookie)
	if err != nil {
		h.clearRefreshCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	h.setRefreshCookie(c, newRefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int64(h.cfg.AccessTokenTTL.Seconds()),
	})
}

// Logout revokes the refresh token and clears the cookie. Always 200 so the
// endpoint never confirms whether a token existed.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie != "" {
		_ = h.authService.Logout(c.Request.Context(), cookie)
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	me, err := h.authService.Me(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, me)
}
