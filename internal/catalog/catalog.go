// Package catalog maintains the time-windowed in-memory mirror of the
// external tables driving menu content: models, questions, question details,
// settings and goals.
//
// Staleness is evaluated per table, independently: a table is refetched when
// its own TTL has elapsed since its last successful load, or immediately when
// the caller forces a reload. The questions table has its group-path cell
// split into segments once, right after fetch — reads never re-split.
//
// All mutation happens under one mutex; readers get a snapshot value that is
// immutable until replaced by the next refresh.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-report-bot/internal/config"
	"github.com/tbourn/go-report-bot/internal/domain"
	"github.com/tbourn/go-report-bot/internal/store"
)

// Table identifies one cached external table.
type Table string

// Cached tables. Results and report rows are read fresh on demand by the
// services and are deliberately not cached here.
const (
	TableModels    Table = "models"
	TableQuestions Table = "questions"
	TableDetails   Table = "details"
	TableSettings  Table = "settings"
	TableGoals     Table = "goals"
)

// AllTables lists every cached table, in refresh order.
var AllTables = []Table{TableModels, TableQuestions, TableDetails, TableSettings, TableGoals}

// Cache is the process-wide catalog mirror. Safe for concurrent use.
type Cache struct {
	store  store.Store
	sheets config.SheetsConfig
	ttl    time.Duration
	log    zerolog.Logger

	// now is the clock, replaceable in tests.
	now func() time.Time

	mu     sync.Mutex
	snap   domain.CatalogSnapshot
	loaded map[Table]time.Time
}

// New constructs an empty Cache over the given store. Every table starts
// stale, so the first Refresh always fetches.
func New(st store.Store, sheets config.SheetsConfig, ttl time.Duration, log zerolog.Logger) *Cache {
	return &Cache{
		store:  st,
		sheets: sheets,
		ttl:    ttl,
		log:    log,
		now:    time.Now,
		loaded: make(map[Table]time.Time),
	}
}

// Refresh brings the requested tables up to date. A table is refetched when
// force is set or its TTL has elapsed; otherwise the cached rows stand.
// Fetch errors propagate to the caller and leave the previous rows in place.
func (c *Cache) Refresh(ctx context.Context, force bool, tables ...Table) error {
	if len(tables) == 0 {
		tables = AllTables
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range tables {
		if !force && c.fresh(t) {
			continue
		}
		if err := c.load(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// fresh reports whether the table's TTL has not yet elapsed. Caller holds mu.
func (c *Cache) fresh(t Table) bool {
	at, ok := c.loaded[t]
	return ok && c.now().Sub(at) <= c.ttl
}

// load fetches and parses one table, replacing it in the snapshot and
// stamping its load time. Caller holds mu.
func (c *Cache) load(ctx context.Context, t Table) error {
	var (
		rows [][]string
		err  error
	)
	switch t {
	case TableModels:
		rows, err = c.store.GetRange(ctx, c.sheets.CatalogSheet, c.sheets.ModelsRange)
	case TableQuestions:
		rows, err = c.store.GetRange(ctx, c.sheets.CatalogSheet, c.sheets.QuestionRange)
	case TableDetails:
		rows, err = c.store.GetRange(ctx, c.sheets.CatalogSheet, c.sheets.DetailRange)
	case TableSettings:
		rows, err = c.store.GetRange(ctx, c.sheets.SettingsSheet, c.sheets.SettingsRange)
	case TableGoals:
		rows, err = c.store.GetRange(ctx, c.sheets.GoalsSheet, c.sheets.GoalsRange)
	default:
		return fmt.Errorf("unknown catalog table %q", t)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", t, err)
	}

	switch t {
	case TableModels:
		out := make([]domain.ModelRow, 0, len(rows))
		for _, r := range rows {
			out = append(out, domain.NewModelRow(r))
		}
		c.snap.Models = out
	case TableQuestions:
		out := make([]domain.QuestionRow, 0, len(rows))
		for _, r := range rows {
			out = append(out, domain.NewQuestionRow(r))
		}
		c.snap.Quest = out
	case TableDetails:
		out := make([]domain.QuestionDetailRow, 0, len(rows))
		dropped := 0
		for _, r := range rows {
			d, ok := domain.NewQuestionDetailRow(r)
			if !ok {
				dropped++
				continue
			}
			out = append(out, d)
		}
		if dropped > 0 {
			c.log.Warn().Int("rows", dropped).Msg("dropped malformed question-detail rows")
		}
		c.snap.Details = out
	case TableSettings:
		out := make([]domain.SettingRow, 0, len(rows))
		for _, r := range rows {
			out = append(out, domain.NewSettingRow(r))
		}
		c.snap.Settings = out
	case TableGoals:
		out := make([]domain.GoalRow, 0, len(rows))
		for _, r := range rows {
			out = append(out, domain.NewGoalRow(r))
		}
		c.snap.Goals = out
	}

	c.loaded[t] = c.now()
	c.log.Debug().Str("table", string(t)).Int("rows", len(rows)).Msg("catalog table loaded")
	return nil
}

// Snapshot returns the current catalog bundle. The returned value must be
// treated as read-only; refreshes replace whole tables rather than mutating.
func (c *Cache) Snapshot() domain.CatalogSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// LastLoad returns the load timestamp of a table, zero if never loaded.
func (c *Cache) LastLoad(t Table) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded[t]
}

// Setting returns the first settings row with the given key.
func (c *Cache) Setting(key string) (domain.SettingRow, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.snap.Settings {
		if s.Key == key {
			return s, true
		}
	}
	return domain.SettingRow{}, false
}
