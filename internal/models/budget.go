package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a spending limit scoped to one account, one category and one
// calendar month/year. Month is 1-indexed. Uniqueness per
// (account, category, month, year) is expected but not enforced by the schema.
type Budget struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	AccountID      uint            `gorm:"index;not null" json:"account_id"`
	CategoryID     uint            `gorm:"index;not null" json:"category_id"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	LimitAmount    decimal.Decimal `gorm:"type:DECIMAL(20,2);not null" json:"limit_amount"`
	AlertThreshold decimal.Decimal `gorm:"type:DECIMAL(5,2);default:80" json:"alert_threshold"` // percent of limit
	Type           string          `gorm:"size:50;not null;default:standard" json:"type"`
	Month          int             `gorm:"not null" json:"month"`
	Year           int             `gorm:"not null" json:"year"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Account  Account  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category Category `json:"category,omitempty"`
}
