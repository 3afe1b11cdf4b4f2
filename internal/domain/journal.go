package domain

import (
	"time"

	"gorm.io/gorm"
)

// Submission is the local journal mirror of a report row appended to the
// external store. The spreadsheet stays the system of record; the journal
// only serves process-local lookups (recent-entries listing for the delete
// flow) without a full-sheet scan.
//
// Timestamp repeats the store's TimestampLayout string because the delete
// flow is keyed by (user id, timestamp) against the sheet.
type Submission struct {
	ID        string         `gorm:"type:char(36);primaryKey"`
	UserID    int64          `gorm:"not null;index:idx_user_submissions"`
	UserName  string         `gorm:"type:varchar(128);not null"`
	Model     string         `gorm:"type:varchar(255);not null"`
	Operation string         `gorm:"type:varchar(255);not null"`
	Quantity  int            `gorm:"not null"`
	Date      string         `gorm:"type:varchar(10);not null"`
	Timestamp string         `gorm:"type:varchar(19);not null;index"`
	CreatedAt time.Time      ``
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the database table name for Submission.
func (Submission) TableName() string { return "submissions" }

// Notification records a reminder sent to a chat, so the notifier can tell
// whether a chat was already reminded inside today's window without tailing
// the external log table.
type Notification struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	ChatID    int64     `gorm:"not null;index:idx_chat_notifications"`
	Kind      string    `gorm:"type:varchar(32);not null;default:'daily'"`
	SentAt    time.Time `gorm:"not null;index:idx_chat_notifications"`
	CreatedAt time.Time ``
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }
