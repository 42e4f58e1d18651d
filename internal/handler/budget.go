package handler

import (
	"errors"
	"net/http"

	"budgetbook/internal/middleware"
	"budgetbook/internal/models"
	"budgetbook/internal/service"
	"budgetbook/internal/util"

	"github.com/gin-gonic/gin"
)

// BudgetHandler serves the budget endpoints with their
// {success, message, budget|budgets, errors} envelope.
type BudgetHandler struct {
	Budgets *service.BudgetService
}

func NewBudgetHandler(budgets *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{Budgets: budgets}
}

func budgetError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		util.Fail(c, http.StatusBadRequest, "invalid data", gin.H{ve.Field: ve.Message})
	case errors.Is(err, service.ErrAccountNotFound):
		util.Fail(c, http.StatusNotFound, "account not found for this user", nil)
	case errors.Is(err, service.ErrBudgetNotFound):
		util.Fail(c, http.StatusNotFound, "budget not found", nil)
	case errors.Is(err, service.ErrForbidden):
		util.Fail(c, http.StatusForbidden, "access to this budget is not allowed", nil)
	default:
		util.Fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func budgetBody(b *models.Budget) gin.H {
	return gin.H{
		"id":              b.ID,
		"name":            b.Name,
		"category":        b.Category.Name,
		"categoryId":      b.CategoryID,
		"accountId":       b.AccountID,
		"limit_amount":    b.LimitAmount,
		"alert_threshold": b.AlertThreshold,
		"type":            b.Type,
		"month":           b.Month,
		"year":            b.Year,
	}
}

func (h *BudgetHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req service.CreateBudgetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	budget, err := h.Budgets.Create(user, req)
	if err != nil {
		budgetError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "budget created",
		"budget":  budgetBody(budget),
	})
}

func (h *BudgetHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	budgets, err := h.Budgets.List(user)
	if err != nil {
		budgetError(c, err)
		return
	}

	items := make([]gin.H, 0, len(budgets))
	for i := range budgets {
		items = append(items, budgetBody(&budgets[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"budgets": items,
	})
}

func (h *BudgetHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	budget, err := h.Budgets.Get(user, id)
	if err != nil {
		budgetError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"budget":  budgetBody(budget),
	})
}

func (h *BudgetHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdateBudgetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	budget, err := h.Budgets.Update(user, id, req)
	if err != nil {
		budgetError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "budget updated",
		"budget":  budgetBody(budget),
	})
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Budgets.Delete(user, id); err != nil {
		budgetError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "budget deleted",
	})
}

func (h *BudgetHandler) Alerts(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	alerts, err := h.Budgets.Alerts(user)
	if err != nil {
		budgetError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"alerts":  alerts,
	})
}
