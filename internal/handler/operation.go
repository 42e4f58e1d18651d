package handler

import (
	"errors"
	"net/http"
	"strconv"

	"budgetbook/internal/middleware"
	"budgetbook/internal/models"
	"budgetbook/internal/service"
	"budgetbook/internal/util"

	"github.com/gin-gonic/gin"
)

// OperationHandler serves the per-account operation endpoints.
type OperationHandler struct {
	Operations *service.OperationService
	Users      *service.UserService
	Linker     *service.Linker
}

func NewOperationHandler(operations *service.OperationService, users *service.UserService, linker *service.Linker) *OperationHandler {
	return &OperationHandler{Operations: operations, Users: users, Linker: linker}
}

// account resolves the caller's account, writing the error response itself.
func (h *OperationHandler) account(c *gin.Context) (*models.Account, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	account, err := h.Users.AccountFor(user)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			util.Error(c, http.StatusNotFound, "account not found for this user")
		} else {
			util.ServerError(c)
		}
		return nil, false
	}
	return account, true
}

func operationError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		util.Error(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrCategoryNotFound):
		util.Error(c, http.StatusNotFound, "category not found")
	case errors.Is(err, service.ErrOperationNotFound):
		util.Error(c, http.StatusNotFound, "operation not found")
	case errors.Is(err, service.ErrAccountNotFound):
		util.Error(c, http.StatusNotFound, "account not found for this user")
	default:
		util.ServerError(c)
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func (h *OperationHandler) Create(c *gin.Context) {
	account, ok := h.account(c)
	if !ok {
		return
	}

	var req service.OperationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	op, err := h.Operations.Create(account, req)
	if err != nil {
		operationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, op)
}

func (h *OperationHandler) List(c *gin.Context) {
	account, ok := h.account(c)
	if !ok {
		return
	}

	ops, err := h.Operations.List(account)
	if err != nil {
		operationError(c, err)
		return
	}
	c.JSON(http.StatusOK, ops)
}

func (h *OperationHandler) Get(c *gin.Context) {
	account, ok := h.account(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	op, err := h.Operations.Get(account, id)
	if err != nil {
		operationError(c, err)
		return
	}
	c.JSON(http.StatusOK, op)
}

func (h *OperationHandler) Update(c *gin.Context) {
	account, ok := h.account(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.OperationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	op, err := h.Operations.Update(account, id, req)
	if err != nil {
		operationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "operation updated",
		"operation": op,
	})
}

func (h *OperationHandler) Delete(c *gin.Context) {
	account, ok := h.account(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Operations.Delete(account, id); err != nil {
		operationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "operation deleted"})
}

func (h *OperationHandler) ByDate(c *gin.Context) {
	account, ok := h.account(c)
	if !ok {
		return
	}

	dateStr := c.Query("date_operation")
	if dateStr == "" {
		util.Error(c, http.StatusBadRequest, "date_operation is required")
		return
	}

	ops, err := h.Operations.ByDate(account, dateStr)
	if err != nil {
		operationError(c, err)
		return
	}
	c.JSON(http.StatusOK, ops)
}

func (h *OperationHandler) ByMonth(c *gin.Context) {
	account, ok := h.account(c)
	if !ok {
		return
	}

	month, year, ok := monthYearQuery(c)
	if !ok {
		return
	}

	ops, err := h.Operations.ByMonth(account, month, year)
	if err != nil {
		operationError(c, err)
		return
	}
	c.JSON(http.StatusOK, ops)
}

// LinkBudgets runs the batch re-link sweep for one calendar month.
func (h *OperationHandler) LinkBudgets(c *gin.Context) {
	account, ok := h.account(c)
	if !ok {
		return
	}

	month, year, ok := monthYearQuery(c)
	if !ok {
		return
	}

	count, err := h.Linker.LinkPending(account.ID, month, year)
	if err != nil {
		operationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     strconv.Itoa(count) + " operations processed for budget linking",
		"linkedCount": count,
	})
}

func monthYearQuery(c *gin.Context) (int, int, bool) {
	monthStr := c.Query("month")
	yearStr := c.Query("year")
	if monthStr == "" || yearStr == "" {
		util.Error(c, http.StatusBadRequest, "month and year are required")
		return 0, 0, false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		util.Error(c, http.StatusBadRequest, "invalid month")
		return 0, 0, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 {
		util.Error(c, http.StatusBadRequest, "invalid year")
		return 0, 0, false
	}
	return month, year, true
}
