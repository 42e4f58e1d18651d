package service

import (
	"path/filepath"
	"testing"
	"time"

	"budgetbook/internal/database"
	"budgetbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedAccount(t *testing.T, db *gorm.DB, userID uint) *models.Account {
	t.Helper()
	account := models.Account{UserID: userID, Name: "Checking account"}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return &account
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := models.Category{Name: name}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return &category
}

func seedBudget(t *testing.T, db *gorm.DB, accountID, categoryID uint, month, year int, limit string) *models.Budget {
	t.Helper()
	budget := models.Budget{
		AccountID:      accountID,
		CategoryID:     categoryID,
		Name:           "test budget",
		LimitAmount:    dec(t, limit),
		AlertThreshold: decimal.NewFromInt(80),
		Type:           "standard",
		Month:          month,
		Year:           year,
	}
	if err := db.Create(&budget).Error; err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	return &budget
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func str(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }

func balanceOf(t *testing.T, db *gorm.DB, accountID uint) decimal.Decimal {
	t.Helper()
	var account models.Account
	if err := db.First(&account, accountID).Error; err != nil {
		t.Fatalf("load account: %v", err)
	}
	return account.CurrentBalance
}

func wantBalance(t *testing.T, db *gorm.DB, accountID uint, want string) {
	t.Helper()
	got := balanceOf(t, db, accountID)
	if !got.Equal(dec(t, want)) {
		t.Fatalf("balance = %s, want %s", got, want)
	}
}

func newOperationService(db *gorm.DB) *OperationService {
	linker := NewLinker(db, zerolog.Nop())
	return NewOperationService(db, linker, "card")
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
