package service

import (
	"errors"
	"fmt"
	"time"

	"budgetbook/internal/models"
	"budgetbook/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OperationService validates and persists operations, keeping the
// account balance reconciled and the budget link current.
type OperationService struct {
	db             *gorm.DB
	rec            Reconciler
	linker         *Linker
	defaultPayment string
}

func NewOperationService(db *gorm.DB, linker *Linker, defaultPayment string) *OperationService {
	if defaultPayment == "" {
		defaultPayment = "card"
	}
	return &OperationService{db: db, linker: linker, defaultPayment: defaultPayment}
}

// OperationInput carries a create or partial-update request. Nil fields
// were absent from the request and keep their current value on update.
type OperationInput struct {
	Amount        *string `json:"amount"`
	Name          *string `json:"name"`
	PaymentMethod *string `json:"payment_method"`
	Location      *string `json:"location"`
	CategoryID    *uint   `json:"categoryId"`
	Date          *string `json:"date"`
	Type          *string `json:"type"`
}

// signAmount applies the storage sign convention: income positive,
// expense negative. Clients always submit positive magnitudes.
func signAmount(magnitude decimal.Decimal, opType string) decimal.Decimal {
	if opType == models.OperationExpense {
		return magnitude.Neg()
	}
	return magnitude
}

func validOperationType(t string) bool {
	return t == models.OperationIncome || t == models.OperationExpense
}

// Create validates the input, then applies the balance delta and inserts
// the operation in one transaction. Budget linking runs afterwards and
// cannot fail the create.
func (s *OperationService) Create(account *models.Account, in OperationInput) (*models.Operation, error) {
	if in.Amount == nil {
		return nil, invalid("amount", "amount is required")
	}
	magnitude, err := util.ParseAmount(*in.Amount)
	if err != nil {
		return nil, invalid("amount", "amount must be a positive decimal")
	}

	if in.Name == nil || util.ValidateLength(*in.Name, 1, 150) != nil {
		return nil, invalid("name", "name must be 1 to 150 characters")
	}

	payment := s.defaultPayment
	if in.PaymentMethod != nil && *in.PaymentMethod != "" {
		payment = *in.PaymentMethod
	}
	if err := util.ValidateLength(payment, 1, 30); err != nil {
		return nil, invalid("payment_method", "payment method must be 1 to 30 characters")
	}

	location := ""
	if in.Location != nil && *in.Location != "" {
		if err := util.ValidateLength(*in.Location, 1, 100); err != nil {
			return nil, invalid("location", "location must be 1 to 100 characters")
		}
		location = *in.Location
	}

	if in.CategoryID == nil {
		return nil, invalid("categoryId", "category is required")
	}
	if err := s.categoryExists(*in.CategoryID); err != nil {
		return nil, err
	}

	if in.Date == nil {
		return nil, invalid("date", "date is required")
	}
	date, err := util.ParseDate(*in.Date)
	if err != nil {
		return nil, invalid("date", "date must be a valid YYYY-MM-DD date")
	}

	if in.Type == nil || !validOperationType(*in.Type) {
		return nil, invalid("type", "type must be income or expense")
	}

	op := models.Operation{
		AccountID:     account.ID,
		CategoryID:    *in.CategoryID,
		Amount:        signAmount(magnitude, *in.Type),
		Name:          *in.Name,
		PaymentMethod: payment,
		Location:      location,
		Type:          *in.Type,
		Date:          date,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.rec.ApplyCreate(tx, account.ID, op.Amount); err != nil {
			return err
		}
		if err := tx.Create(&op).Error; err != nil {
			return fmt.Errorf("create operation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.linker.Link(&op)
	return &op, nil
}

// Update revalidates only the fields present in the request, replaces the
// balance contribution with new-minus-old in the same transaction as the
// write, and re-links only when category or date changed.
func (s *OperationService) Update(account *models.Account, id uint, in OperationInput) (*models.Operation, error) {
	op, err := s.byAccount(account.ID, id)
	if err != nil {
		return nil, err
	}

	oldAmount := op.Amount
	magnitude := op.Amount.Abs()
	opType := op.Type

	if in.Amount != nil {
		magnitude, err = util.ParseAmount(*in.Amount)
		if err != nil {
			return nil, invalid("amount", "amount must be a positive decimal")
		}
	}
	if in.Type != nil {
		if !validOperationType(*in.Type) {
			return nil, invalid("type", "type must be income or expense")
		}
		opType = *in.Type
	}

	if in.Name != nil {
		if util.ValidateLength(*in.Name, 1, 150) != nil {
			return nil, invalid("name", "name must be 1 to 150 characters")
		}
		op.Name = *in.Name
	}

	if in.PaymentMethod != nil {
		payment := *in.PaymentMethod
		if payment == "" {
			payment = s.defaultPayment
		}
		if err := util.ValidateLength(payment, 1, 30); err != nil {
			return nil, invalid("payment_method", "payment method must be 1 to 30 characters")
		}
		op.PaymentMethod = payment
	}

	if in.Location != nil {
		if *in.Location != "" {
			if err := util.ValidateLength(*in.Location, 1, 100); err != nil {
				return nil, invalid("location", "location must be 1 to 100 characters")
			}
		}
		op.Location = *in.Location
	}

	categoryChanged := false
	if in.CategoryID != nil {
		if err := s.categoryExists(*in.CategoryID); err != nil {
			return nil, err
		}
		categoryChanged = *in.CategoryID != op.CategoryID
		op.CategoryID = *in.CategoryID
	}

	dateChanged := false
	if in.Date != nil {
		date, err := util.ParseDate(*in.Date)
		if err != nil {
			return nil, invalid("date", "date must be a valid YYYY-MM-DD date")
		}
		dateChanged = !date.Equal(op.Date)
		op.Date = date
	}

	op.Type = opType
	op.Amount = signAmount(magnitude, opType)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.rec.ApplyUpdate(tx, account.ID, oldAmount, op.Amount); err != nil {
			return err
		}
		if err := tx.Save(op).Error; err != nil {
			return fmt.Errorf("update operation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if categoryChanged || dateChanged {
		s.linker.Link(op)
	}
	return op, nil
}

// Delete reverses the operation's balance effect and removes the row in
// one transaction.
func (s *OperationService) Delete(account *models.Account, id uint) error {
	op, err := s.byAccount(account.ID, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.rec.ApplyDelete(tx, account.ID, op.Amount); err != nil {
			return err
		}
		if err := tx.Delete(op).Error; err != nil {
			return fmt.Errorf("delete operation: %w", err)
		}
		return nil
	})
}

// Get returns one operation of the account.
func (s *OperationService) Get(account *models.Account, id uint) (*models.Operation, error) {
	return s.byAccount(account.ID, id)
}

// List returns all operations of the account, newest first.
func (s *OperationService) List(account *models.Account) ([]models.Operation, error) {
	var ops []models.Operation
	err := s.db.Where("account_id = ?", account.ID).
		Preload("Category").
		Order("date DESC, id DESC").
		Find(&ops).Error
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	return ops, nil
}

// ByDate returns the account's operations on one calendar day.
func (s *OperationService) ByDate(account *models.Account, dateStr string) ([]models.Operation, error) {
	day, err := util.ParseDate(dateStr)
	if err != nil {
		return nil, invalid("date_operation", "date must be a valid YYYY-MM-DD date")
	}

	var ops []models.Operation
	err = s.db.Where("account_id = ? AND date >= ? AND date < ?",
		account.ID, day, day.AddDate(0, 0, 1)).
		Preload("Category").
		Order("date DESC, id DESC").
		Find(&ops).Error
	if err != nil {
		return nil, fmt.Errorf("operations by date: %w", err)
	}
	return ops, nil
}

// ByMonth returns the account's operations within one calendar month.
func (s *OperationService) ByMonth(account *models.Account, month, year int) ([]models.Operation, error) {
	if month < 1 || month > 12 {
		return nil, invalid("month", "month must be between 1 and 12")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var ops []models.Operation
	err := s.db.Where("account_id = ? AND date >= ? AND date < ?", account.ID, start, end).
		Preload("Category").
		Order("date DESC, id DESC").
		Find(&ops).Error
	if err != nil {
		return nil, fmt.Errorf("operations by month: %w", err)
	}
	return ops, nil
}

func (s *OperationService) byAccount(accountID, id uint) (*models.Operation, error) {
	var op models.Operation
	err := s.db.Where("id = ? AND account_id = ?", id, accountID).First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOperationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load operation: %w", err)
	}
	return &op, nil
}

func (s *OperationService) categoryExists(id uint) error {
	var category models.Category
	err := s.db.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}
	return nil
}
