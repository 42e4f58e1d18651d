package handler

import (
	"errors"
	"net/http"
	"time"

	"budgetbook/internal/service"
	"budgetbook/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Users     *service.UserService
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
}

func NewAuthHandler(users *service.UserService, jwtSecret, issuer string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Users:     users,
		JWTSecret: jwtSecret,
		JWTIssuer: issuer,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Users.Register(req)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			util.Error(c, http.StatusBadRequest, ve.Message)
		case errors.Is(err, service.ErrEmailTaken):
			util.Error(c, http.StatusBadRequest, "email already registered")
		default:
			util.ServerError(c)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Users.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			util.Error(c, http.StatusUnauthorized, "invalid email or password")
		} else {
			util.ServerError(c)
		}
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, h.JWTIssuer, user.ID, h.TokenTTL)
	if err != nil {
		util.ServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		},
	})
}
