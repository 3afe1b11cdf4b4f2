// Google Sheets adapter.
//
// This file implements the Store interface on top of the Sheets v4 API using
// a service-account credentials file. Each method is one synchronous network
// round-trip (plus a cached metadata lookup for sheet ids); timeouts and
// retries are left to the injected context and the API client.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

var (
	// sheetReqs counts Sheets API round-trips by operation and outcome.
	sheetReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheets_requests_total",
			Help: "Total number of Google Sheets API requests.",
		},
		[]string{"op", "status"},
	)

	// sheetLat records Sheets API round-trip duration in seconds by operation.
	sheetLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sheets_request_duration_seconds",
			Help:    "Duration of Google Sheets API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(sheetReqs, sheetLat)
}

// Sheets is the production Store backed by one spreadsheet. Safe for
// concurrent use; the sheet-id cache is guarded internally.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// NewSheets builds a Sheets store for the given spreadsheet, authenticating
// with the service-account credentials file.
func NewSheets(ctx context.Context, credentialsFile, spreadsheetID string) (*Sheets, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &Sheets{svc: svc, spreadsheetID: spreadsheetID, sheetIDs: map[string]int64{}}, nil
}

// observe updates the request metrics for one round-trip.
func observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	sheetReqs.WithLabelValues(op, status).Inc()
	sheetLat.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// GetRange implements Store.
func (s *Sheets) GetRange(ctx context.Context, table, rangeSpec string) (rows [][]string, err error) {
	defer func(start time.Time) { observe("get_range", start, err) }(time.Now())

	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, table+"!"+rangeSpec).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get %s!%s: %w", table, rangeSpec, err)
	}
	rows = make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// InsertRow implements Store. It first inserts an empty row dimension so
// existing data shifts down, then writes the values into it.
func (s *Sheets) InsertRow(ctx context.Context, table string, values []string, index int) (err error) {
	defer func(start time.Time) { observe("insert_row", start, err) }(time.Now())

	sheetID, err := s.sheetID(ctx, table)
	if err != nil {
		return err
	}
	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(index - 1),
					EndIndex:   int64(index),
				},
				InheritFromBefore: false,
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("insert row %s@%d: %w", table, index, err)
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(values)}}
	_, err = s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, fmt.Sprintf("%s!A%d", table, index), vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write row %s@%d: %w", table, index, err)
	}
	return nil
}

// AppendRow implements Store.
func (s *Sheets) AppendRow(ctx context.Context, table string, values []string) (err error) {
	defer func(start time.Time) { observe("append_row", start, err) }(time.Now())

	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(values)}}
	_, err = s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, table+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", table, err)
	}
	return nil
}

// UpdateCells implements Store. Values go in as user-entered input so formula
// strings are evaluated by the spreadsheet, per the Store contract.
func (s *Sheets) UpdateCells(ctx context.Context, table string, updates []CellUpdate) (err error) {
	defer func(start time.Time) { observe("update_cells", start, err) }(time.Now())

	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", table, columnLetter(u.Col), u.Row),
			Values: [][]interface{}{{u.Value}},
		})
	}
	_, err = s.svc.Spreadsheets.Values.
		BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data:             data,
		}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update cells %s: %w", table, err)
	}
	return nil
}

// FindRowsByColumnValue implements Store by scanning the full column.
func (s *Sheets) FindRowsByColumnValue(ctx context.Context, table, value string, column int) ([]int, error) {
	letter := columnLetter(column)
	rows, err := s.GetRange(ctx, table, letter+"1:"+letter)
	if err != nil {
		return nil, err
	}
	var positions []int
	for i, row := range rows {
		if len(row) > 0 && row[0] == value {
			positions = append(positions, i+1)
		}
	}
	return positions, nil
}

// RowCount implements Store using the sheet's grid properties.
func (s *Sheets) RowCount(ctx context.Context, table string) (n int, err error) {
	defer func(start time.Time) { observe("row_count", start, err) }(time.Now())

	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("spreadsheet metadata: %w", err)
	}
	for _, sh := range resp.Sheets {
		if sh.Properties != nil && sh.Properties.Title == table {
			if gp := sh.Properties.GridProperties; gp != nil {
				return int(gp.RowCount), nil
			}
		}
	}
	return 0, fmt.Errorf("sheet %q not found", table)
}

// sheetID resolves a worksheet title to its numeric id, caching the mapping.
func (s *Sheets) sheetID(ctx context.Context, table string) (int64, error) {
	s.mu.Lock()
	if id, ok := s.sheetIDs[table]; ok {
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("spreadsheet metadata: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			s.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	id, ok := s.sheetIDs[table]
	if !ok {
		return 0, fmt.Errorf("sheet %q not found", table)
	}
	return id, nil
}

// toInterfaces widens a row of cells into the ValueRange payload type.
func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// columnLetter converts a 1-based column number to its A1 letter form.
func columnLetter(col int) string {
	var b strings.Builder
	for col > 0 {
		col--
		b.WriteByte(byte('A' + col%26))
		col /= 26
	}
	// reverse
	s := []byte(b.String())
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return string(s)
}
