package domain

import "time"

// Spreadsheet date formats, matching the formats the store's own formulas
// parse. All wall-clock values are taken in UTC.
const (
	DateLayout      = "02.01.2006"
	TimestampLayout = "02.01.2006 15:04:05"
)

// DeletedMarker is the logical-deletion flag written into the deletion column
// of a report row. Rows are never physically removed.
const DeletedMarker = "удалено"

// Record is one persisted report entry: who did what, how many, and when.
// It is appended once per submission and only ever logically deleted.
type Record struct {
	UserName  string
	UserID    int64
	Model     string
	Operation string
	Quantity  int
	Date      string // DateLayout
	Timestamp string // TimestampLayout
}

// NewRecord assembles a Record from the finished session and caller identity,
// stamping it with the given UTC instant.
func NewRecord(userName string, userID int64, model, operation string, quantity int, now time.Time) Record {
	now = now.UTC()
	return Record{
		UserName:  userName,
		UserID:    userID,
		Model:     model,
		Operation: operation,
		Quantity:  quantity,
		Date:      now.Format(DateLayout),
		Timestamp: now.Format(TimestampLayout),
	}
}

// Session is the per-user transient record carried between choosing a leaf
// operation and submitting the free-text quantity.
type Session struct {
	Model            string
	Operation        string
	AwaitingQuantity bool
}
