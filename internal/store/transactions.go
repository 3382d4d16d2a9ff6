package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hesab.local/pfm/internal/parser"
)

// Transaction is a persisted transaction with its account and category names joined in
type Transaction struct {
	ID              int64
	Amount          decimal.Decimal
	Type            parser.Direction
	Description     string
	AccountID       *int64
	CategoryID      *int64
	AccountName     string // empty when there is no account
	CategoryName    string // empty when there is no category
	TransactionDate time.Time
	CreatedAt       time.Time
}

// Filter narrows ListTransactions; zero values mean "any"
type Filter struct {
	Query      string // substring of description, case-insensitive for ASCII
	Type       parser.Direction
	AccountID  int64
	CategoryID int64
}

// CategoryTotal is the expense sum for one category
type CategoryTotal struct {
	CategoryName string
	Total        decimal.Decimal
}

const selectTransactionSQL = `
SELECT t.id, t.amount, t.type, COALESCE(t.description, ''), t.account_id, t.category_id,
       COALESCE(a.name, ''), COALESCE(c.name, ''), t.transaction_date, t.created_at
FROM transactions t
LEFT JOIN accounts a ON a.id = t.account_id
LEFT JOIN categories c ON c.id = t.category_id`

// SaveTransaction persists a confirmed parse result. Both transaction_date and
// created_at are set to at.
func (s *Store) SaveTransaction(ctx context.Context, tx *parser.Transaction, at time.Time) (int64, error) {
	if tx == nil || !tx.Amount.IsPositive() || !tx.Direction.Valid() {
		return 0, ErrInvalidTransaction
	}

	stamp := formatTime(at)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (amount, type, description, transaction_date, account_id, category_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.Amount.String(),
		string(tx.Direction),
		tx.Description,
		stamp,
		nullInt64(tx.AccountID),
		nullInt64(tx.CategoryID),
		stamp,
	)
	if err != nil {
		return 0, fmt.Errorf("creating transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading transaction id: %w", err)
	}
	return id, nil
}

// GetTransaction loads one transaction by id
func (s *Store) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	row := s.db.QueryRowContext(ctx, selectTransactionSQL+" WHERE t.id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	return t, err
}

// ListTransactions returns matching transactions, newest id first
func (s *Store) ListTransactions(ctx context.Context, f Filter) ([]Transaction, error) {
	var (
		where []string
		args  []any
	)
	if f.Query != "" {
		where = append(where, "t.description LIKE '%' || ? || '%'")
		args = append(args, f.Query)
	}
	if f.Type != "" {
		where = append(where, "t.type = ?")
		args = append(args, string(f.Type))
	}
	if f.AccountID != 0 {
		where = append(where, "t.account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.CategoryID != 0 {
		where = append(where, "t.category_id = ?")
		args = append(args, f.CategoryID)
	}

	query := selectTransactionSQL
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// Totals sums income and expense amounts created at or after since
func (s *Store) Totals(ctx context.Context, since time.Time) (income, expense decimal.Decimal, err error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT type, amount FROM transactions WHERE created_at >= ?", formatTime(since))
	if err != nil {
		return income, expense, fmt.Errorf("querying totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			typ    string
			amount decimal.Decimal
		)
		if err := rows.Scan(&typ, &amount); err != nil {
			return income, expense, fmt.Errorf("scanning totals: %w", err)
		}
		switch parser.Direction(typ) {
		case parser.Income:
			income = income.Add(amount)
		case parser.Expense:
			expense = expense.Add(amount)
		}
	}
	return income, expense, rows.Err()
}

// CategoryExpenses sums expenses per category created at or after since,
// largest first. Transactions without a category are left out.
func (s *Store) CategoryExpenses(ctx context.Context, since time.Time) ([]CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, t.amount
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.type = 'expense' AND t.created_at >= ?`, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("querying category expenses: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			name   string
			amount decimal.Decimal
		)
		if err := rows.Scan(&name, &amount); err != nil {
			return nil, fmt.Errorf("scanning category expenses: %w", err)
		}
		sums[name] = sums[name].Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totals := make([]CategoryTotal, 0, len(sums))
	for name, total := range sums {
		totals = append(totals, CategoryTotal{CategoryName: name, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c > 0
		}
		return totals[i].CategoryName < totals[j].CategoryName
	})
	return totals, nil
}

// RemoveDuplicates deletes repeated transactions, keeping the lowest id of each group
func (s *Store) RemoveDuplicates(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions
		WHERE id NOT IN (
			SELECT MIN(id) FROM transactions
			GROUP BY amount, type, COALESCE(description, ''), COALESCE(account_id, 0),
			         COALESCE(category_id, 0), transaction_date
		)`)
	if err != nil {
		return 0, fmt.Errorf("deleting duplicates: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var (
		t                 Transaction
		typ               string
		accountID         sql.NullInt64
		categoryID        sql.NullInt64
		txDate, createdAt string
	)
	err := row.Scan(&t.ID, &t.Amount, &typ, &t.Description, &accountID, &categoryID,
		&t.AccountName, &t.CategoryName, &txDate, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("scanning transaction: %w", err)
	}

	t.Type = parser.Direction(typ)
	if accountID.Valid {
		t.AccountID = &accountID.Int64
	}
	if categoryID.Valid {
		t.CategoryID = &categoryID.Int64
	}
	if t.TransactionDate, err = parseTime(txDate); err != nil {
		return t, fmt.Errorf("parsing transaction date: %w", err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return t, fmt.Errorf("parsing created_at: %w", err)
	}
	return t, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
