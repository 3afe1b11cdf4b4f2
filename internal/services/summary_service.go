// Package services – SummaryService
//
// This file implements the SummaryService: read-only views over the
// precomputed aggregate rows of the results table. The store performs the
// quantity × unit-time multiplication and grouping; this service only
// filters rows and formats fixed-width HTML text blocks, splitting them so
// no outbound message exceeds the transport's length limit.
package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/go-report-bot/internal/config"
	"github.com/tbourn/go-report-bot/internal/domain"
	"github.com/tbourn/go-report-bot/internal/store"
	"github.com/tbourn/go-report-bot/internal/utils"
)

// Column widths of the formatted report lines.
const (
	dateWidth        = 25
	amountWidthWide  = 20
	amountWidthSlim  = 15
	hoursWidth       = 15
	totalOwnerPrefix = "Всего ("
)

// TodayResult is one user's precomputed result for a single day.
type TodayResult struct {
	Amount string
	Hours  string
	Found  bool
}

// SummaryService renders the daily, monthly and cross-user report views.
type SummaryService struct {
	// Store is the external tabular store holding the results table.
	Store store.Store
	// Sheets names the results worksheet and range.
	Sheets config.SheetsConfig
	// Limit caps the length of a single outbound message.
	Limit int
	// Now supplies the wall clock; tests substitute a fixed instant.
	Now func() time.Time
}

// NewSummaryService constructs a SummaryService on the real clock.
func NewSummaryService(st store.Store, sheets config.SheetsConfig, limit int) *SummaryService {
	return &SummaryService{Store: st, Sheets: sheets, Limit: limit, Now: time.Now}
}

// results fetches and types the aggregate rows.
func (s *SummaryService) results(ctx context.Context) ([]domain.ResultRow, error) {
	raw, err := s.Store.GetRange(ctx, s.Sheets.ResultsSheet, s.Sheets.ResultsRange)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	rows := make([]domain.ResultRow, 0, len(raw))
	for _, cells := range raw {
		rows = append(rows, domain.NewResultRow(cells))
	}
	return rows, nil
}

// DailyResult returns the user's precomputed result for today. Amount
// defaults to "0" when no row matches, so the caller can always render it.
func (s *SummaryService) DailyResult(ctx context.Context, chatID int64) (TodayResult, error) {
	rows, err := s.results(ctx)
	if err != nil {
		return TodayResult{}, err
	}
	id := strconv.FormatInt(chatID, 10)
	today := s.Now().UTC().Format(domain.DateLayout)
	for _, r := range rows {
		if r.Owner == id && r.Date == today {
			return TodayResult{Amount: r.Amount, Hours: r.Hours, Found: true}, nil
		}
	}
	return TodayResult{Amount: "0"}, nil
}

// CrossUserReport renders every aggregate row, grouping consecutive rows that
// share an owner under an underlined section header. The result is split into
// chunks none of which exceed the limit; an empty table yields no chunks.
func (s *SummaryService) CrossUserReport(ctx context.Context) ([]string, error) {
	rows, err := s.results(ctx)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	prev := ""
	for _, r := range rows {
		if r.Owner == "" {
			continue
		}
		if r.Owner != prev && r.Header != "" {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString("<b><u>" + r.Header + "</u></b>\n")
		}
		writeResultLine(&b, r, amountWidthWide, "")
		prev = r.Owner
	}
	return utils.SplitMessage(b.String(), s.Limit), nil
}

// MonthlyUserReport renders the user's per-day rows, including the running
// "Всего (<id>)" totals the store interleaves. Chunks never exceed the limit;
// a user with no rows yields no chunks.
func (s *SummaryService) MonthlyUserReport(ctx context.Context, chatID int64) ([]string, error) {
	rows, err := s.results(ctx)
	if err != nil {
		return nil, err
	}
	id := strconv.FormatInt(chatID, 10)
	total := totalOwnerPrefix + id + ")"
	var b strings.Builder
	for _, r := range rows {
		if r.Owner != id && r.Owner != total {
			continue
		}
		if b.Len() == 0 {
			b.WriteString("Вот ваши результаты по дням:\n")
		}
		writeResultLine(&b, r, amountWidthSlim, " ч.")
	}
	return utils.SplitMessage(b.String(), s.Limit), nil
}

// writeResultLine emits one fixed-width bolded row: date, amount, hours.
func writeResultLine(b *strings.Builder, r domain.ResultRow, amountWidth int, suffix string) {
	b.WriteString("<b>" + utils.PadRight(r.Date, dateWidth) + "</b>")
	b.WriteString("<b>" + utils.PadLeft(r.Amount, amountWidth) + "</b>")
	b.WriteString("<b>" + utils.PadLeft(r.Hours, hoursWidth) + "</b>" + suffix + "\n")
}
