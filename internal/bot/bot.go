package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"

	"hesab.local/pfm/internal/report"
)

const helpText = "<b>راهنمای ربات</b>\n\n" +
	"<b>ثبت تراکنش:</b>\nتراکنش خود را به فارسی تایپ کنید. مثال:\n<i>خرید قهوه ۵۰ هزار تومان از حساب ملت</i>\n\n" +
	"<b>گزارش‌گیری:</b>\nاز دستور /start برای دسترسی به منو استفاده کنید."

// Bot is the Telegram front end over Sessions
type Bot struct {
	tb       *tele.Bot
	sessions *Sessions
	log      zerolog.Logger

	// ctx is the Run context; handlers pass it to store calls
	ctx context.Context

	mainMenu   *tele.ReplyMarkup
	reportMenu *tele.ReplyMarkup
	helpMenu   *tele.ReplyMarkup
	backMenu   *tele.ReplyMarkup
	confirm    *tele.ReplyMarkup
	removeKbd  *tele.ReplyMarkup
}

// New connects to Telegram and registers every handler.
// An empty allowed list lets everyone in.
func New(token string, allowed []int64, s Store, log zerolog.Logger) (*Bot, error) {
	b := &Bot{
		sessions: NewSessions(s, log),
		log:      log,
		ctx:      context.Background(),
	}

	tb, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			ev := log.Error().Err(err)
			if c != nil && c.Sender() != nil {
				ev = ev.Int64("user_id", c.Sender().ID)
			}
			ev.Msg("Telegram handler failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	b.tb = tb

	tb.Use(allowList(allowed, log))
	b.register()
	return b, nil
}

// Run polls for updates until ctx is cancelled
func (b *Bot) Run(ctx context.Context) {
	b.ctx = ctx
	go func() {
		<-ctx.Done()
		b.tb.Stop()
	}()
	b.log.Info().Str("username", b.tb.Me.Username).Msg("Telegram bot polling")
	b.tb.Start()
}

func (b *Bot) register() {
	b.mainMenu = &tele.ReplyMarkup{}
	btnReports := b.mainMenu.Data("📊 گزارش‌گیری", "report_menu")
	btnHelp := b.mainMenu.Data("راهنما ℹ️", "help")
	b.mainMenu.Inline(b.mainMenu.Row(btnReports), b.mainMenu.Row(btnHelp))

	b.reportMenu = &tele.ReplyMarkup{}
	btnDaily := b.reportMenu.Data("روزانه", "report_daily")
	btnWeekly := b.reportMenu.Data("هفتگی", "report_weekly")
	btnMonthly := b.reportMenu.Data("ماهانه", "report_monthly")
	btnMain := b.reportMenu.Data("بازگشت ⬅️", "main_menu")
	b.reportMenu.Inline(
		b.reportMenu.Row(btnDaily, btnWeekly),
		b.reportMenu.Row(btnMonthly),
		b.reportMenu.Row(btnMain),
	)

	b.helpMenu = &tele.ReplyMarkup{}
	b.helpMenu.Inline(b.helpMenu.Row(btnMain))

	b.backMenu = &tele.ReplyMarkup{}
	b.backMenu.Inline(b.backMenu.Row(btnReports))

	b.confirm = &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	b.confirm.Reply(b.confirm.Row(b.confirm.Text(Yes), b.confirm.Text(No)))
	b.removeKbd = &tele.ReplyMarkup{RemoveKeyboard: true}

	b.tb.Handle("/start", b.onStart)
	b.tb.Handle("/menu", b.onStart)
	b.tb.Handle("/cancel", b.onCancel)
	b.tb.Handle(tele.OnText, b.onText)

	b.tb.Handle(&btnMain, b.onMainMenu)
	b.tb.Handle(&btnReports, b.onReportMenu)
	b.tb.Handle(&btnHelp, b.onHelp)
	b.tb.Handle(&btnDaily, b.onReport(report.Daily))
	b.tb.Handle(&btnWeekly, b.onReport(report.Weekly))
	b.tb.Handle(&btnMonthly, b.onReport(report.Monthly))
}

func (b *Bot) onStart(c tele.Context) error {
	return c.Send("سلام! به ربات مدیریت مالی خوش آمدید. لطفاً یک گزینه را انتخاب کنید:", b.mainMenu)
}

func (b *Bot) onMainMenu(c tele.Context) error {
	c.Respond()
	return c.Edit("منوی اصلی:", b.mainMenu)
}

func (b *Bot) onReportMenu(c tele.Context) error {
	c.Respond()
	return c.Edit("لطفاً دوره گزارش را انتخاب کنید:", b.reportMenu)
}

func (b *Bot) onHelp(c tele.Context) error {
	c.Respond()
	return c.Edit(helpText, b.helpMenu, tele.ModeHTML)
}

func (b *Bot) onReport(period report.Period) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Respond()
		text, err := b.sessions.Report(b.ctx, period)
		if err != nil {
			return err
		}
		return c.Edit(text, b.backMenu, tele.ModeHTML)
	}
}

func (b *Bot) onCancel(c tele.Context) error {
	return c.Send(b.sessions.Cancel(c.Sender().ID), b.removeKbd)
}

func (b *Bot) onText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if strings.HasPrefix(text, "/") {
		return nil
	}

	reply, confirm, err := b.sessions.Reply(b.ctx, c.Sender().ID, c.Text())
	if err != nil {
		return err
	}
	if !confirm {
		return c.Send(reply, b.removeKbd)
	}
	return c.Send(reply, b.confirm, tele.ModeHTML)
}

// allowList drops updates from senders outside ids
func allowList(ids []int64, log zerolog.Logger) tele.MiddlewareFunc {
	allowed := make(map[int64]bool, len(ids))
	for _, id := range ids {
		allowed[id] = true
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if len(allowed) == 0 {
				return next(c)
			}
			sender := c.Sender()
			if sender == nil || !allowed[sender.ID] {
				if sender != nil {
					log.Warn().Int64("user_id", sender.ID).Msg("Ignoring update from unlisted user")
				}
				return nil
			}
			return next(c)
		}
	}
}
