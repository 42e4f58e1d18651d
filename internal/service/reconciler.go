package service

import (
	"fmt"

	"budgetbook/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reconciler maintains account.current_balance as operations mutate.
// Every method runs inside the caller's transaction so the balance
// adjustment and the operation write commit or roll back together.
// The adjustment is a single SQL increment, so concurrent requests on
// the same account cannot lose updates.
type Reconciler struct{}

// ApplyCreate adds a new operation's signed amount to the account balance.
func (Reconciler) ApplyCreate(tx *gorm.DB, accountID uint, amount decimal.Decimal) error {
	return adjustBalance(tx, accountID, amount)
}

// ApplyUpdate replaces an operation's contribution: balance += new - old.
func (Reconciler) ApplyUpdate(tx *gorm.DB, accountID uint, oldAmount, newAmount decimal.Decimal) error {
	return adjustBalance(tx, accountID, newAmount.Sub(oldAmount))
}

// ApplyDelete removes a deleted operation's signed amount from the balance.
func (Reconciler) ApplyDelete(tx *gorm.DB, accountID uint, amount decimal.Decimal) error {
	return adjustBalance(tx, accountID, amount.Neg())
}

func adjustBalance(tx *gorm.DB, accountID uint, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	res := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("current_balance", gorm.Expr("current_balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("adjust balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
