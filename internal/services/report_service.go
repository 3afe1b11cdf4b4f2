// Package services – ReportService
//
// This file implements the ReportService, which owns the submission pipeline
// and the record deletion flow. A submission validates the free-text quantity
// against the user's session, inserts the completed record at the top of the
// report table together with three formula cells the store evaluates, mirrors
// the record into the local journal, and clears the session. Deletion is
// logical: the matching store row gets the deletion marker, never removed.
//
// Service-level errors (ErrInvalidQuantity, ErrNoActiveSession) are returned
// for predictable cases so the bot handler can map them to user messages
// consistently.
package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-report-bot/internal/config"
	"github.com/tbourn/go-report-bot/internal/domain"
	"github.com/tbourn/go-report-bot/internal/repo"
	"github.com/tbourn/go-report-bot/internal/session"
	"github.com/tbourn/go-report-bot/internal/store"
)

// Columns of the report table, 1-based. The first seven hold the record, the
// eighth the deletion marker, and 9..11 the store-evaluated formulas.
const (
	reportColTimestamp = 7
	reportColDeleted   = 8
	reportColValue     = 9
	reportColMonthFlag = 10
	reportColGoalKey   = 11
)

// ReportService validates and persists report submissions and handles the
// two-step deletion of recent records.
type ReportService struct {
	// Store is the external tabular store holding the report table.
	Store store.Store
	// Journal is the local mirror of this process's submissions.
	Journal *gorm.DB
	// Sessions holds the per-user in-flight selection.
	Sessions *session.Store
	// Sheets names the worksheets the formulas reference.
	Sheets config.SheetsConfig
	// Log receives journal-failure warnings; journal errors never fail a
	// submission.
	Log zerolog.Logger
	// Now supplies the wall clock; tests substitute a fixed instant.
	Now func() time.Time
}

// NewReportService constructs a ReportService on the real clock.
func NewReportService(st store.Store, journal *gorm.DB, sessions *session.Store, sheets config.SheetsConfig, log zerolog.Logger) *ReportService {
	return &ReportService{
		Store:    st,
		Journal:  journal,
		Sessions: sessions,
		Sheets:   sheets,
		Log:      log,
		Now:      time.Now,
	}
}

// ParseQuantity validates free text as a positive integer quantity.
func ParseQuantity(text string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, ErrQuantityNotInteger
	}
	if n <= 0 {
		return 0, ErrQuantityNotPositive
	}
	return n, nil
}

// Submit runs the submission pipeline for the user's free-text quantity.
// On success the record is persisted and the session cleared. On any failure
// the session is left intact so the same quantity can be resubmitted without
// re-navigating the menu.
func (s *ReportService) Submit(ctx context.Context, userID int64, userName, rawText string) (domain.Record, error) {
	sess, ok := s.Sessions.Get(userID)
	if !ok || !sess.AwaitingQuantity {
		return domain.Record{}, ErrNoActiveSession
	}
	qty, err := ParseQuantity(rawText)
	if err != nil {
		return domain.Record{}, err
	}

	rec := domain.NewRecord(userName, userID, sess.Model, sess.Operation, qty, s.Now())
	row := []string{
		rec.UserName,
		strconv.FormatInt(rec.UserID, 10),
		rec.Model,
		rec.Operation,
		strconv.Itoa(rec.Quantity),
		rec.Date,
		rec.Timestamp,
	}
	if err := s.Store.InsertRow(ctx, s.Sheets.ReportSheet, row, 2); err != nil {
		return domain.Record{}, fmt.Errorf("insert report row: %w", err)
	}
	if err := s.Store.UpdateCells(ctx, s.Sheets.ReportSheet, s.formulaCells()); err != nil {
		return domain.Record{}, fmt.Errorf("write formula cells: %w", err)
	}

	if _, err := repo.CreateSubmission(s.Journal, rec); err != nil {
		s.Log.Warn().Err(err).Int64("user_id", userID).Msg("journal submission write failed")
	}

	s.Sessions.Clear(userID)
	return rec, nil
}

// formulaCells builds the three derived-computation cells of the freshly
// inserted row (always row 2): the unit-price lookup times quantity, the
// same-month flag, and the goal-key fallback. The store evaluates them.
func (s *ReportService) formulaCells() []store.CellUpdate {
	return []store.CellUpdate{
		{Row: 2, Col: reportColValue, Value: "=ВПР(C2&D2;'" + s.Sheets.CatalogSheet + "'!E:F;2;ЛОЖЬ)*E2"},
		{Row: 2, Col: reportColMonthFlag, Value: "=ЕСЛИ(ПСТР(G2; 4; 7) = ПСТР(ТДАТА(); 4; 7);1;0)"},
		{Row: 2, Col: reportColGoalKey, Value: "=ЕСЛИОШИБКА(ВПР(B2;'" + s.Sheets.GoalsSheet + "'!A:C;3;ЛОЖЬ);A2)"},
	}
}

// Recent returns the user's newest non-deleted submissions from the journal,
// newest first.
func (s *ReportService) Recent(userID int64, count int) ([]domain.Submission, error) {
	return repo.RecentSubmissions(s.Journal, userID, count)
}

// Delete marks the store row carrying the given timestamp as deleted, after
// verifying it belongs to userID. Rows stay in place; only the deletion
// column changes. The journal mirror is soft-deleted alongside.
func (s *ReportService) Delete(ctx context.Context, userID int64, timestamp string) error {
	rows, err := s.Store.FindRowsByColumnValue(ctx, s.Sheets.ReportSheet, timestamp, reportColTimestamp)
	if err != nil {
		return fmt.Errorf("locate report row: %w", err)
	}
	id := strconv.FormatInt(userID, 10)
	deleted := false
	for _, r := range rows {
		cells, err := s.Store.GetRange(ctx, s.Sheets.ReportSheet, rowRange(r))
		if err != nil {
			return fmt.Errorf("read report row %d: %w", r, err)
		}
		if len(cells) == 0 || len(cells[0]) < 2 || cells[0][1] != id {
			continue
		}
		upd := []store.CellUpdate{{Row: r, Col: reportColDeleted, Value: domain.DeletedMarker}}
		if err := s.Store.UpdateCells(ctx, s.Sheets.ReportSheet, upd); err != nil {
			return fmt.Errorf("mark row %d deleted: %w", r, err)
		}
		deleted = true
	}
	if !deleted {
		return ErrRecordNotFound
	}
	if err := repo.MarkSubmissionDeleted(s.Journal, userID, timestamp); err != nil {
		s.Log.Warn().Err(err).Int64("user_id", userID).Msg("journal delete failed")
	}
	return nil
}

// rowRange spans the record columns of one report row.
func rowRange(row int) string {
	n := strconv.Itoa(row)
	return "A" + n + ":H" + n
}
