// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the local
// journal: submissions mirrored from the external store and sent
// notifications.
package repo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-report-bot/internal/domain"
)

// CreateSubmission inserts a journal row mirroring a saved report record.
func CreateSubmission(db *gorm.DB, rec domain.Record) (*domain.Submission, error) {
	s := &domain.Submission{
		ID:        uuid.NewString(),
		UserID:    rec.UserID,
		UserName:  rec.UserName,
		Model:     rec.Model,
		Operation: rec.Operation,
		Quantity:  rec.Quantity,
		Date:      rec.Date,
		Timestamp: rec.Timestamp,
		CreatedAt: time.Now().UTC(),
	}
	return s, db.Create(s).Error
}

// RecentSubmissions returns the user's newest non-deleted submissions,
// newest first.
func RecentSubmissions(db *gorm.DB, userID int64, limit int) ([]domain.Submission, error) {
	var out []domain.Submission
	q := db.Where("user_id = ?", userID).Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// MarkSubmissionDeleted soft-deletes the user's submission carrying the given
// store timestamp. Missing rows are not an error: the journal is a cache and
// may predate the process.
func MarkSubmissionDeleted(db *gorm.DB, userID int64, timestamp string) error {
	return db.
		Where("user_id = ? AND timestamp = ?", userID, timestamp).
		Delete(&domain.Submission{}).Error
}

// RecordNotification inserts a sent-notification row.
func RecordNotification(db *gorm.DB, chatID int64, kind string, sentAt time.Time) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Kind:      kind,
		SentAt:    sentAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	return n, db.Create(n).Error
}

// NotifiedSince reports whether the chat already received a notification of
// the given kind at or after the cutoff.
func NotifiedSince(db *gorm.DB, chatID int64, kind string, cutoff time.Time) (bool, error) {
	var total int64
	err := db.Model(&domain.Notification{}).
		Where("chat_id = ? AND kind = ? AND sent_at >= ?", chatID, kind, cutoff.UTC()).
		Count(&total).Error
	return total > 0, err
}
