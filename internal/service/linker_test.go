package service

import (
	"testing"
	"time"

	"budgetbook/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func seedOperation(t *testing.T, db *gorm.DB, accountID, categoryID uint, amount string, opType string, day time.Time) *models.Operation {
	t.Helper()
	op := models.Operation{
		AccountID:     accountID,
		CategoryID:    categoryID,
		Amount:        dec(t, amount),
		Name:          "test operation",
		PaymentMethod: "card",
		Type:          opType,
		Date:          day,
	}
	if err := db.Create(&op).Error; err != nil {
		t.Fatalf("seed operation: %v", err)
	}
	return &op
}

func TestLinkSetsMatchingBudget(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "link@example.com")
	account := seedAccount(t, db, user.ID)
	category := seedCategory(t, db, "groceries")
	budget := seedBudget(t, db, account.ID, category.ID, 3, 2025, "500")
	linker := NewLinker(db, zerolog.Nop())

	op := seedOperation(t, db, account.ID, category.ID, "-20", models.OperationExpense, date(2025, time.March, 14))
	linker.Link(op)

	if op.BudgetID == nil || *op.BudgetID != budget.ID {
		t.Fatalf("BudgetID = %v, want %d", op.BudgetID, budget.ID)
	}

	// persisted, not only in memory
	var stored models.Operation
	if err := db.First(&stored, op.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.BudgetID == nil || *stored.BudgetID != budget.ID {
		t.Fatalf("stored BudgetID = %v, want %d", stored.BudgetID, budget.ID)
	}
}

func TestLinkNoMatchLeavesUnset(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "link@example.com")
	account := seedAccount(t, db, user.ID)
	category := seedCategory(t, db, "groceries")
	// budget exists but for a different month
	seedBudget(t, db, account.ID, category.ID, 4, 2025, "500")
	linker := NewLinker(db, zerolog.Nop())

	op := seedOperation(t, db, account.ID, category.ID, "-20", models.OperationExpense, date(2025, time.March, 14))
	linker.Link(op)

	if op.BudgetID != nil {
		t.Fatalf("BudgetID = %d, want nil", *op.BudgetID)
	}
}

func TestLinkCategoryMustMatch(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "link@example.com")
	account := seedAccount(t, db, user.ID)
	groceries := seedCategory(t, db, "groceries")
	transport := seedCategory(t, db, "transport")
	seedBudget(t, db, account.ID, transport.ID, 3, 2025, "500")
	linker := NewLinker(db, zerolog.Nop())

	op := seedOperation(t, db, account.ID, groceries.ID, "-20", models.OperationExpense, date(2025, time.March, 14))
	linker.Link(op)

	if op.BudgetID != nil {
		t.Fatalf("BudgetID = %d, want nil", *op.BudgetID)
	}
}

func TestRelinkFollowsMonthMove(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "link@example.com")
	account := seedAccount(t, db, user.ID)
	category := seedCategory(t, db, "groceries")
	march := seedBudget(t, db, account.ID, category.ID, 3, 2025, "500")
	april := seedBudget(t, db, account.ID, category.ID, 4, 2025, "500")
	linker := NewLinker(db, zerolog.Nop())

	op := seedOperation(t, db, account.ID, category.ID, "-20", models.OperationExpense, date(2025, time.March, 14))
	linker.Link(op)
	if op.BudgetID == nil || *op.BudgetID != march.ID {
		t.Fatalf("BudgetID = %v, want %d", op.BudgetID, march.ID)
	}

	// moved to April: re-link must switch to the April budget
	op.Date = date(2025, time.April, 2)
	if err := db.Save(op).Error; err != nil {
		t.Fatalf("save: %v", err)
	}
	linker.Link(op)
	if op.BudgetID == nil || *op.BudgetID != april.ID {
		t.Fatalf("BudgetID = %v, want %d", op.BudgetID, april.ID)
	}

	// moved to May where no budget exists: the stale link must be cleared
	op.Date = date(2025, time.May, 2)
	if err := db.Save(op).Error; err != nil {
		t.Fatalf("save: %v", err)
	}
	linker.Link(op)
	if op.BudgetID != nil {
		t.Fatalf("BudgetID = %d, want nil after move to unbudgeted month", *op.BudgetID)
	}

	var stored models.Operation
	if err := db.First(&stored, op.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.BudgetID != nil {
		t.Fatalf("stored BudgetID = %d, want nil", *stored.BudgetID)
	}
}

func TestLinkPendingCountsProcessed(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "link@example.com")
	account := seedAccount(t, db, user.ID)
	groceries := seedCategory(t, db, "groceries")
	transport := seedCategory(t, db, "transport")
	budget := seedBudget(t, db, account.ID, groceries.ID, 3, 2025, "500")
	linker := NewLinker(db, zerolog.Nop())

	// two linkable, one without a matching budget, one already linked
	a := seedOperation(t, db, account.ID, groceries.ID, "-10", models.OperationExpense, date(2025, time.March, 1))
	b := seedOperation(t, db, account.ID, groceries.ID, "-15", models.OperationExpense, date(2025, time.March, 20))
	c := seedOperation(t, db, account.ID, transport.ID, "-5", models.OperationExpense, date(2025, time.March, 10))
	linked := seedOperation(t, db, account.ID, groceries.ID, "-1", models.OperationExpense, date(2025, time.March, 5))
	if err := db.Model(linked).Update("budget_id", budget.ID).Error; err != nil {
		t.Fatalf("pre-link: %v", err)
	}
	// outside the month
	seedOperation(t, db, account.ID, groceries.ID, "-9", models.OperationExpense, date(2025, time.April, 1))

	count, err := linker.LinkPending(account.ID, 3, 2025)
	if err != nil {
		t.Fatalf("LinkPending: %v", err)
	}
	// processed = attempts, including the one with no matching budget
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}

	for _, op := range []*models.Operation{a, b} {
		var stored models.Operation
		if err := db.First(&stored, op.ID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if stored.BudgetID == nil || *stored.BudgetID != budget.ID {
			t.Fatalf("operation %d BudgetID = %v, want %d", op.ID, stored.BudgetID, budget.ID)
		}
	}
	var stored models.Operation
	if err := db.First(&stored, c.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.BudgetID != nil {
		t.Fatalf("transport operation BudgetID = %d, want nil", *stored.BudgetID)
	}
}

func TestLinkPendingBadMonth(t *testing.T) {
	db := newTestDB(t)
	linker := NewLinker(db, zerolog.Nop())

	if _, err := linker.LinkPending(1, 13, 2025); err == nil {
		t.Fatal("LinkPending(13) error = nil, want error")
	}
}

func TestAlertRaisedOncePastThreshold(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alert@example.com")
	account := seedAccount(t, db, user.ID)
	category := seedCategory(t, db, "groceries")
	budget := seedBudget(t, db, account.ID, category.ID, 3, 2025, "100") // threshold 80 -> alert at 80
	linker := NewLinker(db, zerolog.Nop())

	below := seedOperation(t, db, account.ID, category.ID, "-50", models.OperationExpense, date(2025, time.March, 2))
	linker.Link(below)

	var count int64
	db.Model(&models.Alert{}).Where("budget_id = ?", budget.ID).Count(&count)
	if count != 0 {
		t.Fatalf("alerts below threshold = %d, want 0", count)
	}

	over := seedOperation(t, db, account.ID, category.ID, "-35", models.OperationExpense, date(2025, time.March, 3))
	linker.Link(over)

	db.Model(&models.Alert{}).Where("budget_id = ?", budget.ID).Count(&count)
	if count != 1 {
		t.Fatalf("alerts past threshold = %d, want 1", count)
	}

	// further spending does not duplicate the alert
	more := seedOperation(t, db, account.ID, category.ID, "-10", models.OperationExpense, date(2025, time.March, 4))
	linker.Link(more)

	db.Model(&models.Alert{}).Where("budget_id = ?", budget.ID).Count(&count)
	if count != 1 {
		t.Fatalf("alerts after more spending = %d, want 1", count)
	}
}
