package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Alert records that a budget's linked spending crossed its alert threshold.
// At most one alert is raised per budget.
type Alert struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	BudgetID  uint            `gorm:"index;not null" json:"budget_id"`
	Message   string          `gorm:"size:255" json:"message"`
	Spent     decimal.Decimal `gorm:"type:DECIMAL(20,2)" json:"spent"`
	Threshold decimal.Decimal `gorm:"type:DECIMAL(5,2)" json:"threshold"`
	CreatedAt time.Time       `json:"created_at"`

	Budget Budget `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
