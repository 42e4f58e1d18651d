package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds the running balance of one user.
// CurrentBalance always equals the sum of signed amounts of the
// account's operations; it is adjusted incrementally, never recomputed.
type Account struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index;not null" json:"user_id"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	CurrentBalance decimal.Decimal `gorm:"type:DECIMAL(20,2);not null" json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
