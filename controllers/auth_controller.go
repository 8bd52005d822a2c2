package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tringuyenminh209/Kizamu/models"
	"github.com/tringuyenminh209/Kizamu/services"
)

// AuthController handles registration, login and session endpoints.
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register handles POST /api/register.
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	result, err := ac.auth.Register(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		if ve, ok := services.AsValidation(err); ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "validation error",
				"errors":  ve.Fields,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "registration failed",
			"errors":  gin.H{"server": []string{"a server error occurred"}},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    result.User,
		"token":   result.Token,
		"message": "registration successful",
	})
}

// Login handles POST /api/login.
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTooManyAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message": "too many login attempts, please retry in 10 minutes",
				"errors":  gin.H{"login": []string{"account is temporarily locked"}},
			})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "email or password is incorrect",
				"errors":  gin.H{"credentials": []string{"invalid credentials"}},
			})
		default:
			if ve, ok := services.AsValidation(err); ok {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"message": "validation error",
					"errors":  ve.Fields,
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "login failed",
				"errors":  gin.H{"server": []string{"a server error occurred"}},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    result.User,
		"token":   result.Token,
		"message": "login successful",
	})
}

// GetUser handles GET /api/user.
func (ac *AuthController) GetUser(c *gin.Context) {
	user, err := ac.auth.GetUser(c.Request.Context(), c.GetUint("uid"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "a server error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout handles POST /api/logout. Revokes only the presented token.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.auth.Logout(c.Request.Context(), c.GetUint("uid"), c.GetUint("tokenID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "a server error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// RefreshToken handles POST /api/refresh-token.
func (ac *AuthController) RefreshToken(c *gin.Context) {
	user, err := ac.auth.GetUser(c.Request.Context(), c.GetUint("uid"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "a server error occurred"})
		return
	}

	token, err := ac.auth.RefreshToken(c.Request.Context(), user, c.GetUint("tokenID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "a server error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "token refreshed",
	})
}

// UpdateFCMToken handles POST /api/user/fcm-token.
func (ac *AuthController) UpdateFCMToken(c *gin.Context) {
	var req models.FCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	if err := ac.auth.UpdateFCMToken(c.Request.Context(), c.GetUint("uid"), &req); err != nil {
		if ve, ok := services.AsValidation(err); ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "validation error",
				"errors":  ve.Fields,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "a server error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "fcm token updated"})
}
