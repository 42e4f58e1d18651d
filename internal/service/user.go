package service

import (
	"errors"
	"fmt"
	"strings"

	"budgetbook/internal/models"
	"budgetbook/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles registration, login and the cascading delete of a
// user's whole subtree.
type UserService struct {
	db         *gorm.DB
	bcryptCost int
}

func NewUserService(db *gorm.DB, bcryptCost int) *UserService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{db: db, bcryptCost: bcryptCost}
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Register creates the user and a default account in one transaction, so
// operation endpoints always find an account for the user.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") || util.ValidateLength(in.Email, 3, 128) != nil {
		return nil, invalid("email", "a valid email is required")
	}
	if len(in.Password) < 8 || len(in.Password) > 64 {
		return nil, invalid("password", "password must be 8 to 64 characters")
	}
	if in.FirstName != "" && util.ValidateLength(in.FirstName, 1, 100) != nil {
		return nil, invalid("first_name", "first name must be 1 to 100 characters")
	}
	if in.LastName != "" && util.ValidateLength(in.LastName, 1, 100) != nil {
		return nil, invalid("last_name", "last name must be 1 to 100 characters")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		account := models.Account{
			UserID: user.ID,
			Name:   "Checking account",
		}
		if err := tx.Create(&account).Error; err != nil {
			return fmt.Errorf("create default account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies the credentials and returns the user. The same
// error covers unknown email and wrong password.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrForbidden
	}
	return &user, nil
}

// AccountFor returns the user's account.
func (s *UserService) AccountFor(user *models.User) (*models.Account, error) {
	var account models.Account
	err := s.db.Where("user_id = ?", user.ID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &account, nil
}

// Delete removes the user and everything below: per account its
// operations and budgets, then the accounts, then the user row. One
// transaction; any failure leaves every row in place.
func (s *UserService) Delete(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.DeleteTx(tx, userID)
	})
}

// DeleteTx runs the cascade inside an existing transaction.
func (s *UserService) DeleteTx(tx *gorm.DB, userID uint) error {
	var user models.User
	err := tx.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	var accounts []models.Account
	if err := tx.Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}

	for _, account := range accounts {
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Operation{}).Error; err != nil {
			return fmt.Errorf("delete operations: %w", err)
		}
		var budgetIDs []uint
		if err := tx.Model(&models.Budget{}).Where("account_id = ?", account.ID).Pluck("id", &budgetIDs).Error; err != nil {
			return fmt.Errorf("load budget ids: %w", err)
		}
		if len(budgetIDs) > 0 {
			if err := tx.Where("budget_id IN ?", budgetIDs).Delete(&models.Alert{}).Error; err != nil {
				return fmt.Errorf("delete alerts: %w", err)
			}
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Budget{}).Error; err != nil {
			return fmt.Errorf("delete budgets: %w", err)
		}
	}

	if err := tx.Where("user_id = ?", userID).Delete(&models.Account{}).Error; err != nil {
		return fmt.Errorf("delete accounts: %w", err)
	}
	if err := tx.Delete(&user).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
