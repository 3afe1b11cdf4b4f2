// Package bot – outbound rate limiting.
//
// This file implements a lightweight, in-memory, token-bucket limiter with
// per-chat buckets and opportunistic garbage collection, wrapped around the
// Transport so every handler and the notifier share the same flood control.
// The limiter is process-local, which matches the single-process deployment.
package bot

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// chatBucket holds a single chat's limiter and the last time it was used,
// so idle buckets can be evicted.
type chatBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// SendLimiter is a per-chat token-bucket limiter. Buckets are created on
// demand in a map guarded by a mutex; idle buckets are evicted after a TTL
// via opportunistic cleanup during lookups. Safe for concurrent use.
type SendLimiter struct {
	rps   rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[int64]*chatBucket

	ttl      time.Duration
	cleanupN uint64
}

// NewSendLimiter constructs a SendLimiter with the given tokens-per-second
// and burst size. A burst <= 0 is coerced to 1; an rps of 0 disables
// limiting entirely.
func NewSendLimiter(rps float64, burst int) *SendLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &SendLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		buckets: make(map[int64]*chatBucket),
		ttl:     10 * time.Minute,
	}
}

// Wait blocks until the chat's bucket releases a token or ctx is done.
func (l *SendLimiter) Wait(ctx context.Context, chatID int64) error {
	if l == nil || l.rps == 0 {
		return nil
	}
	return l.bucket(chatID).Wait(ctx)
}

// bucket returns the limiter for chatID, creating it if absent. Cleanup runs
// before the lookup so an idle bucket can be evicted even when it is the one
// being fetched.
func (l *SendLimiter) bucket(chatID int64) *rate.Limiter {
	now := time.Now()

	l.mu.Lock()
	l.cleanupN++
	if l.cleanupN >= 5000 {
		for id, b := range l.buckets {
			if now.Sub(b.lastSeen) >= l.ttl {
				delete(l.buckets, id)
			}
		}
		l.cleanupN = 0
	}

	if b, ok := l.buckets[chatID]; ok {
		b.lastSeen = now
		lim := b.limiter
		l.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(l.rps, l.burst)
	l.buckets[chatID] = &chatBucket{limiter: lim, lastSeen: now}
	l.mu.Unlock()
	return lim
}

// LimitedTransport wraps a Transport so every outbound call waits on the
// per-chat bucket first.
type LimitedTransport struct {
	Next    Transport
	Limiter *SendLimiter
}

// NewLimitedTransport wraps next with per-chat flood control.
func NewLimitedTransport(next Transport, limiter *SendLimiter) *LimitedTransport {
	return &LimitedTransport{Next: next, Limiter: limiter}
}

func (t *LimitedTransport) SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) (SentMessage, error) {
	if err := t.Limiter.Wait(ctx, chatID); err != nil {
		return SentMessage{}, err
	}
	return t.Next.SendMessage(ctx, chatID, text, opts)
}

func (t *LimitedTransport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := t.Limiter.Wait(ctx, chatID); err != nil {
		return err
	}
	return t.Next.DeleteMessage(ctx, chatID, messageID)
}

func (t *LimitedTransport) EditReplyMarkup(ctx context.Context, chatID int64, messageID int, kb Keyboard) error {
	if err := t.Limiter.Wait(ctx, chatID); err != nil {
		return err
	}
	return t.Next.EditReplyMarkup(ctx, chatID, messageID, kb)
}
