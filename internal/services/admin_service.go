// Package services – AdminService
//
// This file implements the AdminService: the settings-table admin allowlist
// check and the "hide" action, which flags question-detail rows so they stop
// appearing as leaf operations. Hiding is a store write, not a catalog edit:
// the flag column of every matching detail row is set and the catalog is then
// force-refreshed so subsequent menus see the change.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbourn/go-report-bot/internal/catalog"
	"github.com/tbourn/go-report-bot/internal/config"
	"github.com/tbourn/go-report-bot/internal/domain"
	"github.com/tbourn/go-report-bot/internal/fingerprint"
	"github.com/tbourn/go-report-bot/internal/store"
)

// adminSettingKey is the settings-table key listing admin chat ids.
const adminSettingKey = "Администратор"

// hiddenFlagOffset is the 0-based position of the hidden-flag cell within a
// question-detail row.
const hiddenFlagOffset = 7

// HideKind selects which detail column a hide target matches against.
type HideKind int

const (
	// HideModel hides every detail row of the model.
	HideModel HideKind = iota
	// HideGroup hides the rows of one group within the model.
	HideGroup
	// HideOperation hides the rows of one operation within the model.
	HideOperation
)

// HideTarget is a parsed hide request: the model fingerprint plus an optional
// group or operation fingerprint narrowing the match.
type HideTarget struct {
	Model string
	Kind  HideKind
	Key   string
}

// ParseHideTarget decodes the payload of a hide request. The payload is the
// model fingerprint, optionally followed by "_g<fp>" or "_o<fp>". A "g"
// qualifier wins over "o" when both could apply.
func ParseHideTarget(payload string) (HideTarget, error) {
	parts := strings.Split(payload, "_")
	if parts[0] == "" {
		return HideTarget{}, fmt.Errorf("hide target %q: missing model", payload)
	}
	t := HideTarget{Model: parts[0], Kind: HideModel}
	if len(parts) > 1 {
		switch {
		case strings.HasPrefix(parts[1], "g"):
			t.Kind, t.Key = HideGroup, parts[1][1:]
		case strings.HasPrefix(parts[1], "o"):
			t.Kind, t.Key = HideOperation, parts[1][1:]
		default:
			return HideTarget{}, fmt.Errorf("hide target %q: unknown qualifier", payload)
		}
	}
	return t, nil
}

// Matches reports whether a detail row falls under the target.
func (t HideTarget) Matches(d domain.QuestionDetailRow) bool {
	if !fingerprint.Matches(d.Model, t.Model) {
		return false
	}
	switch t.Kind {
	case HideGroup:
		return fingerprint.Matches(d.Group, t.Key)
	case HideOperation:
		return fingerprint.Matches(d.Operation, t.Key)
	default:
		return true
	}
}

// HiddenLabels names what a hide pass flagged, for the confirmation message.
type HiddenLabels struct {
	Model  string
	Detail string // group or operation label; empty for model-wide hides
	Rows   int
}

// AdminService answers admin allowlist checks and performs hide actions.
type AdminService struct {
	// Store is the external tabular store holding the detail rows.
	Store store.Store
	// Catalog supplies the settings snapshot and is refreshed after a hide.
	Catalog *catalog.Cache
	// Sheets names the catalog worksheet and the detail range.
	Sheets config.SheetsConfig
}

// NewAdminService constructs an AdminService.
func NewAdminService(st store.Store, cat *catalog.Cache, sheets config.SheetsConfig) *AdminService {
	return &AdminService{Store: st, Catalog: cat, Sheets: sheets}
}

// IsAdmin reports whether the chat id is listed under the admin settings key.
func (s *AdminService) IsAdmin(chatID int64) bool {
	id := fmt.Sprintf("%d", chatID)
	for _, row := range s.Catalog.Snapshot().Settings {
		if row.Key == adminSettingKey && row.Value(0) == id {
			return true
		}
	}
	return false
}

// Hide flags every detail row matching the target and force-refreshes the
// details table so menus rendered afterwards exclude them. Rows already
// hidden are flagged again harmlessly.
func (s *AdminService) Hide(ctx context.Context, target HideTarget) (HiddenLabels, error) {
	raw, err := s.Store.GetRange(ctx, s.Sheets.CatalogSheet, s.Sheets.DetailRange)
	if err != nil {
		return HiddenLabels{}, fmt.Errorf("read details: %w", err)
	}
	originRow, originCol := store.RangeOrigin(s.Sheets.DetailRange)

	var (
		labels  HiddenLabels
		updates []store.CellUpdate
	)
	for i, cells := range raw {
		d, ok := domain.NewQuestionDetailRow(cells)
		if !ok || !target.Matches(d) {
			continue
		}
		labels.Model = d.Model
		switch target.Kind {
		case HideGroup:
			labels.Detail = d.Group
		case HideOperation:
			labels.Detail = d.Operation
		}
		updates = append(updates, store.CellUpdate{
			Row:   originRow + i,
			Col:   originCol + hiddenFlagOffset,
			Value: "1",
		})
	}
	if len(updates) == 0 {
		return HiddenLabels{}, ErrRecordNotFound
	}
	if err := s.Store.UpdateCells(ctx, s.Sheets.CatalogSheet, updates); err != nil {
		return HiddenLabels{}, fmt.Errorf("flag details hidden: %w", err)
	}
	labels.Rows = len(updates)

	if err := s.Catalog.Refresh(ctx, true, catalog.TableDetails); err != nil {
		return labels, fmt.Errorf("refresh details: %w", err)
	}
	return labels, nil
}
