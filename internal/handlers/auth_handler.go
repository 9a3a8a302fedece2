package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"contactbook/internal/middleware"
	"contactbook/internal/models"
	"contactbook/internal/services"
)

type AuthHandler struct {
	sessions *services.SessionService
}

func NewAuthHandler(sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// @Summary      Sign up
// @Description  Registers a new account and sends a confirmation email
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        signup  body      models.SignupRequest  true  "Account credentials"
// @Success      201     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.sessions.Signup(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrAccountExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Account already exists"})
			return
		}
		log.Printf("[auth][signup] failed for %q: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   user,
		"detail": "User successfully created, check your email for confirmation",
	})
}

// @Summary      Log in
// @Description  Checks credentials and returns an access/refresh token pair
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Login credentials"
// @Success      200    {object}  models.TokenPair
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.sessions.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		log.Printf("[auth][login] failed for %q: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

// @Summary      Refresh tokens
// @Description  Exchanges the refresh token from the Authorization header for a new pair
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.TokenPair
// @Failure      401  {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	tokenStr, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}

	pair, err := h.sessions.Refresh(tokenStr)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}
		log.Printf("[auth][refresh] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Refresh failed"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

// @Summary      Confirm email
// @Description  Confirms the account the emailed token was issued for
// @Tags         Auth
// @Produce      json
// @Param        token  path      string  true  "Confirmation token"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /auth/confirm/{token} [get]
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	already, err := h.sessions.Confirm(c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token for email verification"})
		case errors.Is(err, services.ErrUnknownAccount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Verification error"})
		default:
			log.Printf("[auth][confirm] failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Confirmation failed"})
		}
		return
	}
	if already {
		c.JSON(http.StatusOK, gin.H{"message": "Your email is already confirmed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email confirmed"})
}

// @Summary      Resend confirmation email
// @Description  Sends another confirmation email; the response never reveals whether the account exists
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      map[string]string  true  "Username (email)"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Router       /auth/request-confirmation [post]
func (h *AuthHandler) RequestConfirmation(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.sessions.RequestConfirmation(req.Username)
	c.JSON(http.StatusOK, gin.H{"message": "Check your email for confirmation"})
}
