package service

import (
	"errors"
	"fmt"
	"time"

	"budgetbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var percentBase = decimal.NewFromInt(100)

// Linker attaches operations to the budget matching their category,
// account and calendar month. Linking is best-effort: a store failure is
// logged and swallowed, never surfaced to the caller, so operation
// persistence does not depend on it.
type Linker struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewLinker(db *gorm.DB, log zerolog.Logger) *Linker {
	return &Linker{db: db, log: log}
}

// Link resolves the budget for op and persists the reference. A match
// sets the reference; no match clears a previously set one, so a moved
// operation never keeps a stale link. Month is 1-indexed.
func (l *Linker) Link(op *models.Operation) {
	budgetID, err := l.match(op)
	if err != nil {
		l.log.Error().Err(err).Uint("operation_id", op.ID).Msg("budget link lookup failed")
		return
	}

	if budgetID == nil && op.BudgetID == nil {
		return
	}
	if budgetID != nil && op.BudgetID != nil && *budgetID == *op.BudgetID {
		return
	}

	if err := l.db.Model(op).Update("budget_id", budgetID).Error; err != nil {
		l.log.Error().Err(err).Uint("operation_id", op.ID).Msg("budget link write failed")
		return
	}
	op.BudgetID = budgetID

	if budgetID != nil {
		l.log.Debug().Uint("operation_id", op.ID).Uint("budget_id", *budgetID).Msg("operation linked to budget")
		if op.Type == models.OperationExpense {
			l.checkAlert(*budgetID)
		}
	}
}

// LinkPending links every operation of the account in the given calendar
// month that has no budget reference yet. It returns the number of
// operations processed, not the number successfully linked.
func (l *Linker) LinkPending(accountID uint, month, year int) (int, error) {
	if month < 1 || month > 12 {
		return 0, invalid("month", "month must be between 1 and 12")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var ops []models.Operation
	if err := l.db.
		Where("account_id = ? AND budget_id IS NULL AND date >= ? AND date < ?", accountID, start, end).
		Find(&ops).Error; err != nil {
		return 0, fmt.Errorf("load pending operations: %w", err)
	}

	for i := range ops {
		l.Link(&ops[i])
	}
	return len(ops), nil
}

func (l *Linker) match(op *models.Operation) (*uint, error) {
	month := int(op.Date.Month())
	year := op.Date.Year()

	var budget models.Budget
	err := l.db.
		Where("category_id = ? AND account_id = ? AND month = ? AND year = ?",
			op.CategoryID, op.AccountID, month, year).
		First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget.ID, nil
}

// checkAlert raises at most one alert per budget once linked spending
// crosses limit * threshold / 100. Best-effort, like linking itself.
func (l *Linker) checkAlert(budgetID uint) {
	var budget models.Budget
	if err := l.db.First(&budget, budgetID).Error; err != nil {
		l.log.Error().Err(err).Uint("budget_id", budgetID).Msg("alert check: load budget failed")
		return
	}

	var spentStr string
	row := l.db.Model(&models.Operation{}).
		Where("budget_id = ? AND type = ?", budgetID, models.OperationExpense).
		Select("COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&spentStr); err != nil {
		l.log.Error().Err(err).Uint("budget_id", budgetID).Msg("alert check: sum failed")
		return
	}
	spentSigned, err := decimal.NewFromString(spentStr)
	if err != nil {
		l.log.Error().Err(err).Uint("budget_id", budgetID).Msg("alert check: bad sum")
		return
	}
	// expense amounts are stored negative
	spent := spentSigned.Abs()

	limit := budget.LimitAmount.Mul(budget.AlertThreshold).Div(percentBase)
	if spent.LessThan(limit) {
		return
	}

	var count int64
	if err := l.db.Model(&models.Alert{}).Where("budget_id = ?", budgetID).Count(&count).Error; err != nil || count > 0 {
		return
	}

	alert := models.Alert{
		BudgetID:  budgetID,
		Message:   fmt.Sprintf("budget %q reached %s%% of its limit", budget.Name, budget.AlertThreshold),
		Spent:     spent,
		Threshold: budget.AlertThreshold,
	}
	if err := l.db.Create(&alert).Error; err != nil {
		l.log.Error().Err(err).Uint("budget_id", budgetID).Msg("alert create failed")
		return
	}
	l.log.Info().Uint("budget_id", budgetID).Str("spent", spent.String()).Msg("budget alert raised")
}
