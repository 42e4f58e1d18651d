package service

import (
	"errors"
	"fmt"
	"time"

	"budgetbook/internal/models"
	"budgetbook/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BudgetService validates and persists budgets. Every access by id
// verifies the budget's account belongs to the requesting user: missing
// rows are not-found, foreign rows are forbidden.
type BudgetService struct {
	db *gorm.DB
}

func NewBudgetService(db *gorm.DB) *BudgetService {
	return &BudgetService{db: db}
}

type CreateBudgetInput struct {
	Name           string  `json:"name"`
	LimitAmount    *string `json:"limit_amount"`
	AccountID      uint    `json:"accountId"`
	CategoryID     uint    `json:"categoryId"`
	AlertThreshold *int    `json:"alert_threshold"`
	Type           string  `json:"type"`
	Month          int     `json:"month"`
	Year           int     `json:"year"`
}

type UpdateBudgetInput struct {
	Name           *string  `json:"name"`
	LimitAmount    *string  `json:"limit_amount"`
	CategoryID     *uint    `json:"categoryId"`
	AlertThreshold *float64 `json:"alert_threshold"`
	Type           *string  `json:"type"`
	Month          *int     `json:"month"`
	Year           *int     `json:"year"`
}

// Create validates the input and inserts the budget. Threshold defaults
// to 80 percent, type to "standard", month and year to the current
// calendar month.
func (s *BudgetService) Create(user *models.User, in CreateBudgetInput) (*models.Budget, error) {
	if util.ValidateLength(in.Name, 1, 100) != nil {
		return nil, invalid("name", "name must be 1 to 100 characters")
	}

	if in.LimitAmount == nil {
		return nil, invalid("limit_amount", "limit amount is required")
	}
	limit, err := util.ParseNonNegativeAmount(*in.LimitAmount)
	if err != nil {
		return nil, invalid("limit_amount", "limit amount must be a non-negative decimal")
	}

	threshold := 80
	if in.AlertThreshold != nil {
		if *in.AlertThreshold < 1 || *in.AlertThreshold > 100 {
			return nil, invalid("alert_threshold", "alert threshold must be between 1 and 100")
		}
		threshold = *in.AlertThreshold
	}

	budgetType := "standard"
	if in.Type != "" {
		if util.ValidateLength(in.Type, 1, 50) != nil {
			return nil, invalid("type", "type must be 1 to 50 characters")
		}
		budgetType = in.Type
	}

	now := time.Now()
	month := in.Month
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, invalid("month", "month must be between 1 and 12")
	}
	year := in.Year
	if year == 0 {
		year = now.Year()
	}

	// the account must exist and belong to the caller
	var account models.Account
	err = s.db.Where("id = ? AND user_id = ?", in.AccountID, user.ID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	var category models.Category
	err = s.db.First(&category, in.CategoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid("categoryId", "category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}

	budget := models.Budget{
		AccountID:      in.AccountID,
		CategoryID:     in.CategoryID,
		Name:           in.Name,
		LimitAmount:    limit,
		AlertThreshold: decimal.NewFromInt(int64(threshold)),
		Type:           budgetType,
		Month:          month,
		Year:           year,
	}
	if err := s.db.Create(&budget).Error; err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}
	budget.Category = category
	return &budget, nil
}

// Get returns one budget after the ownership check.
func (s *BudgetService) Get(user *models.User, id uint) (*models.Budget, error) {
	return s.owned(user, id)
}

// List returns all budgets across the caller's accounts.
func (s *BudgetService) List(user *models.User) ([]models.Budget, error) {
	var budgets []models.Budget
	err := s.db.
		Joins("JOIN accounts ON accounts.id = budgets.account_id").
		Where("accounts.user_id = ?", user.ID).
		Preload("Category").
		Find(&budgets).Error
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

// Update revalidates only the fields present in the request.
func (s *BudgetService) Update(user *models.User, id uint, in UpdateBudgetInput) (*models.Budget, error) {
	budget, err := s.owned(user, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if util.ValidateLength(*in.Name, 1, 100) != nil {
			return nil, invalid("name", "name must be 1 to 100 characters")
		}
		budget.Name = *in.Name
	}

	if in.LimitAmount != nil {
		limit, err := util.ParseNonNegativeAmount(*in.LimitAmount)
		if err != nil {
			return nil, invalid("limit_amount", "limit amount must be a non-negative decimal")
		}
		budget.LimitAmount = limit
	}

	if in.AlertThreshold != nil {
		if *in.AlertThreshold < 0 || *in.AlertThreshold > 100 {
			return nil, invalid("alert_threshold", "alert threshold must be between 0 and 100")
		}
		budget.AlertThreshold = decimal.NewFromFloat(*in.AlertThreshold)
	}

	if in.CategoryID != nil {
		var category models.Category
		err := s.db.First(&category, *in.CategoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("categoryId", "category not found")
		}
		if err != nil {
			return nil, fmt.Errorf("load category: %w", err)
		}
		budget.CategoryID = *in.CategoryID
	}

	if in.Type != nil {
		if util.ValidateLength(*in.Type, 1, 50) != nil {
			return nil, invalid("type", "type must be 1 to 50 characters")
		}
		budget.Type = *in.Type
	}

	if in.Month != nil {
		if *in.Month < 1 || *in.Month > 12 {
			return nil, invalid("month", "month must be between 1 and 12")
		}
		budget.Month = *in.Month
	}
	if in.Year != nil {
		budget.Year = *in.Year
	}

	if err := s.db.Omit(clause.Associations).Save(budget).Error; err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	return budget, nil
}

// Delete removes the budget after the ownership check. Operations that
// referenced it keep existing; their budget_id is cleared.
func (s *BudgetService) Delete(user *models.User, id uint) error {
	budget, err := s.owned(user, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Operation{}).
			Where("budget_id = ?", budget.ID).
			Update("budget_id", nil).Error; err != nil {
			return fmt.Errorf("unlink operations: %w", err)
		}
		if err := tx.Delete(budget).Error; err != nil {
			return fmt.Errorf("delete budget: %w", err)
		}
		return nil
	})
}

// Alerts returns alerts raised on the caller's budgets, newest first.
func (s *BudgetService) Alerts(user *models.User) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.
		Joins("JOIN budgets ON budgets.id = alerts.budget_id").
		Joins("JOIN accounts ON accounts.id = budgets.account_id").
		Where("accounts.user_id = ?", user.ID).
		Order("alerts.created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// owned loads a budget by id and distinguishes missing (not found) from
// foreign (forbidden). Foreign budgets never leak data.
func (s *BudgetService) owned(user *models.User, id uint) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Preload("Category").Preload("Account").First(&budget, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load budget: %w", err)
	}
	if budget.Account.UserID != user.ID {
		return nil, ErrForbidden
	}
	return &budget, nil
}
