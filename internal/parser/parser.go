package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"hesab.local/pfm/internal/extractor"
	"hesab.local/pfm/internal/matcher"
)

// Direction is the money flow of a transaction
type Direction string

const (
	Income  Direction = "income"
	Expense Direction = "expense"
)

// Valid reports whether d is a known direction
func (d Direction) Valid() bool {
	return d == Income || d == Expense
}

// Label returns the Persian name shown to users
func (d Direction) Label() string {
	if d == Income {
		return "درآمد"
	}
	return "هزینه"
}

// Transaction represents a transaction parsed from a free-form Persian message
type Transaction struct {
	Amount       decimal.Decimal `json:"amount"` // Toman
	Direction    Direction       `json:"type"`
	Description  string          `json:"description"`
	AccountID    *int64          `json:"account_id"`
	CategoryID   *int64          `json:"category_id"`
	OriginalText string          `json:"original_text"`
}

// incomeKeywords flip a conversational amount to income
var incomeKeywords = []string{"واریز", "دریافت", "حقوق", "شارژ حساب"}

// Classify decides the direction for an amount found in normalized text.
// Structured receipts are always expenses.
func Classify(amount *extractor.Amount, text string) Direction {
	if amount.Strategy == extractor.StrategyStructured {
		return Expense
	}
	for _, kw := range incomeKeywords {
		if strings.Contains(text, kw) {
			return Income
		}
	}
	return Expense
}

// Parse converts a Persian message into a Transaction using snapshots of the
// known accounts and categories. It returns nil when no amount can be found.
// Parse keeps no state and never retains the entity slices.
func Parse(text string, accounts, categories []matcher.Entity) *Transaction {
	if text == "" {
		return nil
	}

	normalized := Normalize(text)

	amount := extractor.Extract(normalized)
	if amount == nil || !amount.Value.IsPositive() {
		return nil
	}

	remaining := normalized
	if amount.Matched != "" {
		remaining = strings.Replace(normalized, amount.Matched, "", 1)
	}

	return &Transaction{
		Amount:       amount.Value,
		Direction:    Classify(amount, normalized),
		Description:  Describe(remaining, accounts, categories),
		AccountID:    matcher.MatchID(remaining, accounts),
		CategoryID:   matcher.MatchID(remaining, categories),
		OriginalText: text,
	}
}
