package handler

import (
	"errors"
	"net/http"

	"budgetbook/internal/middleware"
	"budgetbook/internal/service"
	"budgetbook/internal/util"

	"github.com/gin-gonic/gin"
)

// UserHandler serves profile and account-deletion endpoints.
type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

// Me returns the current user's profile and balance.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	body := gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"phone":      user.Phone,
		"created_at": user.CreatedAt,
	}
	if account, err := h.Users.AccountFor(user); err == nil {
		body["account"] = gin.H{
			"id":              account.ID,
			"name":            account.Name,
			"current_balance": account.CurrentBalance,
		}
	}
	c.JSON(http.StatusOK, gin.H{"user": body})
}

// Delete removes the current user and every account, operation, budget
// and alert below it, atomically.
func (h *UserHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.Users.Delete(user.ID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			util.Error(c, http.StatusNotFound, "user not found")
		} else {
			util.ServerError(c)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user and associated data deleted"})
}
