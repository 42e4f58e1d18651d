package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation types.
const (
	OperationIncome  = "income"
	OperationExpense = "expense"
)

// Operation is a single recorded income or expense transaction.
// Amount is stored signed: positive for income, negative for expense.
// The sign is applied once, at creation/update time, so balance
// reconciliation is a plain addition.
type Operation struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	AccountID     uint            `gorm:"index;not null" json:"account_id"`
	CategoryID    uint            `gorm:"index;not null" json:"category_id"`
	BudgetID      *uint           `gorm:"index" json:"budget_id"`
	Amount        decimal.Decimal `gorm:"type:DECIMAL(20,2);not null" json:"amount"`
	Name          string          `gorm:"size:150;not null" json:"name"`
	PaymentMethod string          `gorm:"size:30;not null" json:"payment_method"`
	Location      string          `gorm:"size:100" json:"location"`
	Type          string          `gorm:"size:16;index;not null" json:"type"` // income / expense
	Date          time.Time       `gorm:"index;not null" json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Account  Account  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category Category `json:"category,omitempty"`
}
