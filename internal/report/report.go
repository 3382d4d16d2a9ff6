package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"hesab.local/pfm/internal/store"
)

// Period is a reporting window ending now
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// DashboardWindow is the look-back used by the web dashboard
const DashboardWindow = 30 * 24 * time.Hour

var (
	periodDurations = map[Period]time.Duration{
		Daily:   24 * time.Hour,
		Weekly:  7 * 24 * time.Hour,
		Monthly: DashboardWindow,
	}
	periodLabels = map[Period]string{
		Daily:   "۲۴ ساعت گذشته",
		Weekly:  "۷ روز گذشته",
		Monthly: "۳۰ روز گذشته",
	}
)

// ParsePeriod accepts daily, weekly or monthly
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := periodDurations[p]; !ok {
		return "", fmt.Errorf("unknown report period %q", s)
	}
	return p, nil
}

// Label returns the Persian description of the window
func (p Period) Label() string {
	return periodLabels[p]
}

// Since returns the start of the window ending at now
func (p Period) Since(now time.Time) time.Time {
	return now.Add(-periodDurations[p])
}

// Source is the read side of the store used for reporting
type Source interface {
	Totals(ctx context.Context, since time.Time) (income, expense decimal.Decimal, err error)
	CategoryExpenses(ctx context.Context, since time.Time) ([]store.CategoryTotal, error)
}

// Summary holds income and expense totals over a period
type Summary struct {
	Period  Period
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Balance is income minus expense
func (s Summary) Balance() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

// Build sums persisted transactions over period
func Build(ctx context.Context, src Source, period Period, now time.Time) (Summary, error) {
	income, expense, err := src.Totals(ctx, period.Since(now))
	if err != nil {
		return Summary{}, fmt.Errorf("building %s report: %w", period, err)
	}
	return Summary{Period: period, Income: income, Expense: expense}, nil
}

// Dashboard is the 30-day overview shown on the web dashboard
type Dashboard struct {
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	Balance          decimal.Decimal
	CategoryExpenses []store.CategoryTotal
}

// BuildDashboard collects totals and per-category expenses for the last 30 days
func BuildDashboard(ctx context.Context, src Source, now time.Time) (Dashboard, error) {
	since := now.Add(-DashboardWindow)
	income, expense, err := src.Totals(ctx, since)
	if err != nil {
		return Dashboard{}, fmt.Errorf("building dashboard totals: %w", err)
	}
	categories, err := src.CategoryExpenses(ctx, since)
	if err != nil {
		return Dashboard{}, fmt.Errorf("building dashboard categories: %w", err)
	}
	return Dashboard{
		TotalIncome:      income,
		TotalExpense:     expense,
		Balance:          income.Sub(expense),
		CategoryExpenses: categories,
	}, nil
}

// FormatToman rounds to whole Toman and adds thousands separators
func FormatToman(amount decimal.Decimal) string {
	return humanize.Comma(amount.Round(0).IntPart())
}

// Text renders the report message sent by the bot, formatted as Telegram HTML
func Text(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>گزارش مالی - %s</b>\n\n", s.Period.Label())
	fmt.Fprintf(&b, "🟢 <b>درآمد:</b> %s تومان\n", FormatToman(s.Income))
	fmt.Fprintf(&b, "🔴 <b>هزینه:</b> %s تومان\n\n", FormatToman(s.Expense))
	fmt.Fprintf(&b, "💰 <b>تراز:</b> %s تومان", FormatToman(s.Balance()))
	return b.String()
}
