// Package session holds the bot's per-user volatile state: the single active
// prompt message each user may have, and the in-flight model/operation
// selection awaiting a quantity.
//
// Both structures are plain maps behind a mutex. State is intentionally
// process-local: losing it on restart only means a user taps a dead keyboard
// once and starts over.
package session

import "sync"

// Prompt identifies one bot-sent interactive message.
type Prompt struct {
	MessageID int
	ChatID    int64
}

// PromptRegistry tracks the one active prompt per user. Registering a new
// prompt evicts the previous one and returns it so the caller can delete the
// stale message; any callback arriving for an evicted prompt is ignored.
type PromptRegistry struct {
	mu      sync.Mutex
	prompts map[int64]Prompt
}

// NewPromptRegistry returns an empty registry.
func NewPromptRegistry() *PromptRegistry {
	return &PromptRegistry{prompts: make(map[int64]Prompt)}
}

// Register records p as the user's active prompt. It returns the previously
// active prompt and true when one existed.
func (r *PromptRegistry) Register(userID int64, p Prompt) (Prompt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.prompts[userID]
	r.prompts[userID] = p
	return prev, ok
}

// IsActive reports whether messageID is the user's current prompt.
func (r *PromptRegistry) IsActive(userID int64, messageID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prompts[userID]
	return ok && p.MessageID == messageID
}

// Active returns the user's current prompt, if any.
func (r *PromptRegistry) Active(userID int64) (Prompt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prompts[userID]
	return p, ok
}

// Len returns the number of users with an active prompt.
func (r *PromptRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.prompts)
}

// Evict removes the user's active prompt and returns it, if one existed.
func (r *PromptRegistry) Evict(userID int64) (Prompt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prompts[userID]
	delete(r.prompts, userID)
	return p, ok
}
