package bot

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hesab.local/pfm/internal/matcher"
	"hesab.local/pfm/internal/parser"
	"hesab.local/pfm/internal/report"
)

const (
	Yes = "بله"
	No  = "خیر"

	unknownName = "نامشخص"

	msgNotUnderstood = "متوجه نشدم. لطفاً تراکنش را واضح‌تر بیان کنید یا از منوی /start استفاده نمایید."
	msgSaved         = "✅ تراکنش با موفقیت ثبت شد."
	msgNoPending     = "خطا: اطلاعات تراکنش یافت نشد."
	msgSaveFailed    = "خطایی در ثبت تراکنش رخ داد."
	msgCancelled     = "عملیات لغو شد."
)

// Store is what the bot needs from persistence
type Store interface {
	Accounts(ctx context.Context) ([]matcher.Entity, error)
	Categories(ctx context.Context) ([]matcher.Entity, error)
	SaveTransaction(ctx context.Context, tx *parser.Transaction, at time.Time) (int64, error)
	report.Source
}

// Sessions holds the per-user confirmation flow independent of Telegram
type Sessions struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time

	mu      sync.Mutex
	pending map[int64]*parser.Transaction
}

func NewSessions(s Store, log zerolog.Logger) *Sessions {
	return &Sessions{
		store:   s,
		log:     log,
		now:     time.Now,
		pending: make(map[int64]*parser.Transaction),
	}
}

// Propose parses text and, when recognized, parks it as the user's pending
// transaction. ok reports whether a confirmation is now awaited.
func (s *Sessions) Propose(ctx context.Context, userID int64, text string) (reply string, ok bool, err error) {
	accounts, err := s.store.Accounts(ctx)
	if err != nil {
		return "", false, fmt.Errorf("loading accounts: %w", err)
	}
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return "", false, fmt.Errorf("loading categories: %w", err)
	}

	tx := parser.Parse(text, accounts, categories)
	if tx == nil {
		s.log.Debug().Int64("user_id", userID).Msg("Message not recognized")
		return msgNotUnderstood, false, nil
	}
	s.log.Debug().
		Int64("user_id", userID).
		Str("amount", tx.Amount.String()).
		Str("type", string(tx.Direction)).
		Msg("Transaction recognized")

	s.mu.Lock()
	s.pending[userID] = tx
	s.mu.Unlock()

	return summary(tx, accounts, categories), true, nil
}

// Reply routes one free-text message: a bare بله or خیر answers the pending
// confirmation (or reports that none exists), anything else is parsed as a new
// transaction. confirm reports whether the بله/خیر keyboard should be shown.
func (s *Sessions) Reply(ctx context.Context, userID int64, text string) (reply string, confirm bool, err error) {
	switch strings.TrimSpace(text) {
	case Yes, No:
		return s.Confirm(ctx, userID, text), false, nil
	}
	return s.Propose(ctx, userID, text)
}

// Pending reports whether userID has a transaction awaiting confirmation
func (s *Sessions) Pending(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[userID]
	return ok
}

// Confirm persists the pending transaction on بله and discards it otherwise.
// The pending entry is always cleared.
func (s *Sessions) Confirm(ctx context.Context, userID int64, answer string) string {
	tx := s.take(userID)
	if strings.TrimSpace(answer) != Yes {
		return msgCancelled
	}
	if tx == nil {
		return msgNoPending
	}

	id, err := s.store.SaveTransaction(ctx, tx, s.now())
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to save transaction")
		return msgSaveFailed
	}
	s.log.Info().Int64("user_id", userID).Int64("transaction_id", id).Msg("Transaction saved")
	return msgSaved
}

// Cancel drops any pending transaction
func (s *Sessions) Cancel(userID int64) string {
	s.take(userID)
	return msgCancelled
}

// Report renders the totals for period ending now
func (s *Sessions) Report(ctx context.Context, period report.Period) (string, error) {
	sum, err := report.Build(ctx, s.store, period, s.now())
	if err != nil {
		return "", err
	}
	return report.Text(sum), nil
}

func (s *Sessions) take(userID int64) *parser.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.pending[userID]
	delete(s.pending, userID)
	return tx
}

func summary(tx *parser.Transaction, accounts, categories []matcher.Entity) string {
	var b strings.Builder
	b.WriteString("🔍 <b>تراکنش شناسایی شد</b>\n\n")
	fmt.Fprintf(&b, "<b>نوع:</b> %s\n", tx.Direction.Label())
	fmt.Fprintf(&b, "<b>مبلغ:</b> %s تومان\n", report.FormatToman(tx.Amount))
	fmt.Fprintf(&b, "<b>شرح:</b> %s\n", html.EscapeString(tx.Description))
	fmt.Fprintf(&b, "<b>حساب:</b> %s\n", html.EscapeString(matcher.NameOf(tx.AccountID, accounts, unknownName)))
	fmt.Fprintf(&b, "<b>دسته‌بندی:</b> %s\n\n", html.EscapeString(matcher.NameOf(tx.CategoryID, categories, unknownName)))
	b.WriteString("آیا اطلاعات صحیح است؟")
	return b.String()
}
