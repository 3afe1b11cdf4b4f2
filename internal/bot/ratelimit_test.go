package bot

import (
	"context"
	"testing"
	"time"
)

func TestSendLimiterDisabled(t *testing.T) {
	l := NewSendLimiter(0, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	for i := 0; i < 50; i++ {
		if err := l.Wait(ctx, 1); err != nil {
			t.Fatalf("Wait with disabled limiter: %v", err)
		}
	}
}

func TestSendLimiterBurst(t *testing.T) {
	l := NewSendLimiter(1, 3)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, 1); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Fatalf("burst waited %v", elapsed)
	}
}

func TestSendLimiterPerChat(t *testing.T) {
	l := NewSendLimiter(1, 1)
	ctx := context.Background()
	// Each chat has its own bucket, so the first token of every chat is
	// available immediately.
	start := time.Now()
	for chat := int64(1); chat <= 5; chat++ {
		if err := l.Wait(ctx, chat); err != nil {
			t.Fatalf("Wait(%d): %v", chat, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Fatalf("independent buckets waited %v", elapsed)
	}
}

func TestSendLimiterContextCancel(t *testing.T) {
	l := NewSendLimiter(0.001, 1)
	ctx := context.Background()
	if err := l.Wait(ctx, 9); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, 9); err == nil {
		t.Fatal("expected context error on drained bucket")
	}
}

func TestLimitedTransportPassthrough(t *testing.T) {
	inner := &fakeTransport{}
	tr := NewLimitedTransport(inner, NewSendLimiter(0, 1))
	ctx := context.Background()

	sent, err := tr.SendMessage(ctx, 7, "привет", nil)
	if err != nil || sent.MessageID == 0 {
		t.Fatalf("SendMessage = %+v, %v", sent, err)
	}
	if err := tr.DeleteMessage(ctx, 7, sent.MessageID); err != nil {
		t.Fatalf("DeleteMessage: %v", err)
	}
	if err := tr.EditReplyMarkup(ctx, 7, sent.MessageID, AdminKeyboard()); err != nil {
		t.Fatalf("EditReplyMarkup: %v", err)
	}
	if len(inner.sent) != 1 || len(inner.deleted) != 1 || len(inner.edits) != 1 {
		t.Fatalf("inner calls = %d/%d/%d", len(inner.sent), len(inner.deleted), len(inner.edits))
	}
}
