package notify

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-report-bot/internal/bot"
	"github.com/tbourn/go-report-bot/internal/catalog"
	"github.com/tbourn/go-report-bot/internal/repo"
)

const (
	// windowSettingKey is the settings-table key holding the window spec and
	// the reminder text.
	windowSettingKey = "Интервал уведомлений"

	// notificationKind labels reminder rows in the journal for dedup.
	notificationKind = "reminder"

	// greeting precedes the reminder text, same as a live operator would open.
	greeting = "😊"
)

// Notifier periodically reminds every goal-holding chat to fill the report.
// Delivery is deduplicated through the journal: one reminder per chat per
// window opening.
type Notifier struct {
	Catalog   *catalog.Cache
	Transport bot.Transport
	Journal   *gorm.DB

	// Period is the cadence of reminder passes; RetryDelay is the back-off
	// after a failed pass.
	Period     time.Duration
	RetryDelay time.Duration

	Log zerolog.Logger
	Now func() time.Time
}

// New constructs a Notifier on the real clock.
func New(cat *catalog.Cache, tr bot.Transport, journal *gorm.DB, period, retry time.Duration, log zerolog.Logger) *Notifier {
	return &Notifier{
		Catalog:    cat,
		Transport:  tr,
		Journal:    journal,
		Period:     period,
		RetryDelay: retry,
		Log:        log,
		Now:        time.Now,
	}
}

// Run executes reminder passes until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	for {
		delay := n.Period
		if err := n.Pass(ctx); err != nil {
			n.Log.Error().Err(err).Msg("reminder pass failed")
			delay = n.RetryDelay
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// Pass performs one reminder sweep: refresh the window and chat list, then
// remind every chat not yet reminded since the window opened today.
func (n *Notifier) Pass(ctx context.Context) error {
	if err := n.Catalog.Refresh(ctx, false, catalog.TableSettings, catalog.TableGoals); err != nil {
		return err
	}
	snap := n.Catalog.Snapshot()

	setting, ok := n.Catalog.Setting(windowSettingKey)
	if !ok {
		// No window configured: reminders are simply off.
		return nil
	}
	w, err := ParseWindow(setting.Value(0), setting.Value(1))
	if err != nil {
		return err
	}

	now := n.Now()
	if !w.Contains(now) {
		return nil
	}
	cutoff := w.OpensAt(now)

	for _, g := range snap.Goals {
		if g.Key == "" || g.Key == "*" {
			continue
		}
		chatID, err := strconv.ParseInt(g.Key, 10, 64)
		if err != nil {
			n.Log.Warn().Str("key", g.Key).Msg("goal row with non-numeric chat id")
			continue
		}
		done, err := repo.NotifiedSince(n.Journal, chatID, notificationKind, cutoff)
		if err != nil {
			return err
		}
		if done {
			continue
		}
		if err := n.remind(ctx, chatID, w.Message); err != nil {
			return err
		}
		if _, err := repo.RecordNotification(n.Journal, chatID, notificationKind, now); err != nil {
			return err
		}
		n.Log.Info().Int64("chat_id", chatID).Msg("reminder sent")
	}
	return nil
}

func (n *Notifier) remind(ctx context.Context, chatID int64, text string) error {
	if _, err := n.Transport.SendMessage(ctx, chatID, greeting, nil); err != nil {
		return err
	}
	_, err := n.Transport.SendMessage(ctx, chatID, text, &bot.SendOptions{ParseMode: "HTML"})
	return err
}
