package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hesab.local/pfm/internal/matcher"
	"hesab.local/pfm/internal/parser"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func int64Ptr(v int64) *int64 { return &v }

func TestOpenSeedsDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	accounts, err := s.Accounts(ctx)
	if err != nil {
		t.Fatalf("Accounts() error = %v", err)
	}
	if got := matcher.Names(accounts); len(got) != len(DefaultAccounts) || got[0] != "بانک ملت" {
		t.Errorf("Accounts() = %v, want %v", got, DefaultAccounts)
	}

	categories, err := s.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if len(categories) != len(DefaultCategories) {
		t.Errorf("Categories() returned %d rows, want %d", len(categories), len(DefaultCategories))
	}

	// Migrating again must not duplicate the seed rows
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	again, _ := s.Categories(ctx)
	if len(again) != len(categories) {
		t.Errorf("Categories() after second migrate = %d rows, want %d", len(again), len(categories))
	}
}

func TestCreateAndDeleteEntities(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, "  رستوران ")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if cat.Name != "رستوران" {
		t.Errorf("CreateCategory() name = %q, want trimmed %q", cat.Name, "رستوران")
	}

	if _, err := s.CreateCategory(ctx, "رستوران"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("CreateCategory(duplicate) error = %v, want ErrDuplicateName", err)
	}
	if _, err := s.CreateAccount(ctx, "   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("CreateAccount(blank) error = %v, want ErrEmptyName", err)
	}

	name, err := s.CategoryName(ctx, cat.ID)
	if err != nil || name != "رستوران" {
		t.Errorf("CategoryName() = %q, %v, want %q", name, err, "رستوران")
	}

	if err := s.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}
	if err := s.DeleteCategory(ctx, cat.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteCategory(again) error = %v, want ErrNotFound", err)
	}
	if _, err := s.AccountName(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("AccountName(999) error = %v, want ErrNotFound", err)
	}
}

func TestSaveTransactionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 21, 10, 30, 0, 0, time.UTC)

	tx := &parser.Transaction{
		Amount:      decimal.RequireFromString("1234.56"),
		Direction:   parser.Expense,
		Description: "قهوه",
		AccountID:   int64Ptr(1),
		CategoryID:  int64Ptr(3),
	}

	id, err := s.SaveTransaction(ctx, tx, at)
	if err != nil {
		t.Fatalf("SaveTransaction() error = %v", err)
	}

	got, err := s.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if !got.Amount.Equal(tx.Amount) {
		t.Errorf("Amount = %s, want %s", got.Amount, tx.Amount)
	}
	if got.Type != parser.Expense {
		t.Errorf("Type = %s, want %s", got.Type, parser.Expense)
	}
	if got.Description != "قهوه" {
		t.Errorf("Description = %q, want %q", got.Description, "قهوه")
	}
	if got.AccountID == nil || *got.AccountID != 1 || got.AccountName != "بانک ملت" {
		t.Errorf("Account = %v %q, want 1 %q", got.AccountID, got.AccountName, "بانک ملت")
	}
	if got.CategoryID == nil || *got.CategoryID != 3 || got.CategoryName != "خرید" {
		t.Errorf("Category = %v %q, want 3 %q", got.CategoryID, got.CategoryName, "خرید")
	}
	if !got.TransactionDate.Equal(at) || !got.CreatedAt.Equal(at) {
		t.Errorf("dates = %v / %v, want %v", got.TransactionDate, got.CreatedAt, at)
	}
}

func TestSaveParsedTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	accounts, _ := s.Accounts(ctx)
	categories, _ := s.Categories(ctx)
	tx := parser.Parse("مبلغ: ۱۲,۳۴۵ ریال قبوض", accounts, categories)
	if tx == nil {
		t.Fatal("Parse() = nil, want transaction")
	}

	id, err := s.SaveTransaction(ctx, tx, time.Now())
	if err != nil {
		t.Fatalf("SaveTransaction() error = %v", err)
	}
	got, err := s.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got.Amount.String() != "1234.5" {
		t.Errorf("Amount = %s, want 1234.5", got.Amount)
	}
	if got.AccountID != nil {
		t.Errorf("AccountID = %d, want nil", *got.AccountID)
	}
	if got.CategoryName != "قبوض" {
		t.Errorf("CategoryName = %q, want %q", got.CategoryName, "قبوض")
	}
}

func TestSaveTransactionRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		tx   *parser.Transaction
	}{
		{"nil", nil},
		{"zero amount", &parser.Transaction{Amount: decimal.Zero, Direction: parser.Expense}},
		{"negative amount", &parser.Transaction{Amount: decimal.NewFromInt(-5), Direction: parser.Income}},
		{"unknown direction", &parser.Transaction{Amount: decimal.NewFromInt(5), Direction: "transfer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.SaveTransaction(ctx, tt.tx, time.Now()); !errors.Is(err, ErrInvalidTransaction) {
				t.Errorf("SaveTransaction() error = %v, want ErrInvalidTransaction", err)
			}
		})
	}
}

func TestDeleteAccountKeepsTransactions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveTransaction(ctx, &parser.Transaction{
		Amount:    decimal.NewFromInt(100),
		Direction: parser.Expense,
		AccountID: int64Ptr(2),
	}, time.Now())
	if err != nil {
		t.Fatalf("SaveTransaction() error = %v", err)
	}

	if err := s.DeleteAccount(ctx, 2); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}

	got, err := s.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got.AccountID != nil || got.AccountName != "" {
		t.Errorf("Account = %v %q, want nil", got.AccountID, got.AccountName)
	}
}

func TestListTransactionsFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	seed := []*parser.Transaction{
		{Amount: decimal.NewFromInt(50000), Direction: parser.Expense, Description: "قهوه", AccountID: int64Ptr(1), CategoryID: int64Ptr(3)},
		{Amount: decimal.NewFromInt(2000000), Direction: parser.Income, Description: "شد", AccountID: int64Ptr(2), CategoryID: int64Ptr(2)},
		{Amount: decimal.NewFromInt(120000), Direction: parser.Expense, Description: "قبض برق", CategoryID: int64Ptr(4)},
		{Amount: decimal.NewFromInt(30000), Direction: parser.Expense, Description: "Coffee beans", AccountID: int64Ptr(1)},
	}
	for _, tx := range seed {
		if _, err := s.SaveTransaction(ctx, tx, now); err != nil {
			t.Fatalf("SaveTransaction() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"All newest first", Filter{}, []string{"Coffee beans", "قبض برق", "شد", "قهوه"}},
		{"By type", Filter{Type: parser.Income}, []string{"شد"}},
		{"By account", Filter{AccountID: 1}, []string{"Coffee beans", "قهوه"}},
		{"By category", Filter{CategoryID: 4}, []string{"قبض برق"}},
		{"Description query", Filter{Query: "قبض"}, []string{"قبض برق"}},
		{"ASCII query ignores case", Filter{Query: "coffee"}, []string{"Coffee beans"}},
		{"Combined", Filter{Type: parser.Expense, AccountID: 1, Query: "قهوه"}, []string{"قهوه"}},
		{"No match", Filter{AccountID: 3}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListTransactions(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListTransactions() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ListTransactions() returned %d rows, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Description != tt.want[i] {
					t.Errorf("ListTransactions()[%d] = %q, want %q", i, got[i].Description, tt.want[i])
				}
			}
		})
	}
}

func TestTotalsAndCategoryExpenses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -40)

	save := func(amount string, dir parser.Direction, category *int64, at time.Time) {
		t.Helper()
		tx := &parser.Transaction{Amount: decimal.RequireFromString(amount), Direction: dir, CategoryID: category}
		if _, err := s.SaveTransaction(ctx, tx, at); err != nil {
			t.Fatalf("SaveTransaction() error = %v", err)
		}
	}

	save("2000000", parser.Income, int64Ptr(2), now)
	save("50000.25", parser.Expense, int64Ptr(3), now)
	save("70000", parser.Expense, int64Ptr(3), now)
	save("300000", parser.Expense, int64Ptr(4), now)
	save("999", parser.Expense, nil, now)
	save("800000", parser.Expense, int64Ptr(4), old)

	since := now.AddDate(0, 0, -30)
	income, expense, err := s.Totals(ctx, since)
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	if !income.Equal(decimal.NewFromInt(2000000)) {
		t.Errorf("income = %s, want 2000000", income)
	}
	if !expense.Equal(decimal.RequireFromString("420999.25")) {
		t.Errorf("expense = %s, want 420999.25", expense)
	}

	totals, err := s.CategoryExpenses(ctx, since)
	if err != nil {
		t.Fatalf("CategoryExpenses() error = %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("CategoryExpenses() returned %d rows, want 2", len(totals))
	}
	if totals[0].CategoryName != "قبوض" || !totals[0].Total.Equal(decimal.NewFromInt(300000)) {
		t.Errorf("totals[0] = %+v, want قبوض 300000", totals[0])
	}
	if totals[1].CategoryName != "خرید" || !totals[1].Total.Equal(decimal.RequireFromString("120000.25")) {
		t.Errorf("totals[1] = %+v, want خرید 120000.25", totals[1])
	}
}

func TestRemoveDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	tx := &parser.Transaction{Amount: decimal.NewFromInt(1000), Direction: parser.Expense, Description: "نان"}
	for i := 0; i < 3; i++ {
		if _, err := s.SaveTransaction(ctx, tx, at); err != nil {
			t.Fatalf("SaveTransaction() error = %v", err)
		}
	}
	if _, err := s.SaveTransaction(ctx, tx, at.Add(time.Hour)); err != nil {
		t.Fatalf("SaveTransaction() error = %v", err)
	}

	deleted, err := s.RemoveDuplicates(ctx)
	if err != nil {
		t.Fatalf("RemoveDuplicates() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("RemoveDuplicates() = %d, want 2", deleted)
	}
	remaining, _ := s.ListTransactions(ctx, Filter{})
	if len(remaining) != 2 {
		t.Errorf("remaining = %d, want 2", len(remaining))
	}
}
