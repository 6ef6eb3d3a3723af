package index

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/chronos/internal/insight"
)

// ErrChatNotFound is returned for unknown or evicted session ids.
var ErrChatNotFound = errors.New("chat session not found")

// chatEntry wraps a session with bookkeeping. turnMu serialises messages,
// the SDK chat keeps history in place and is not safe for concurrent sends.
type chatEntry struct {
	session  insight.ChatSession
	turnMu   sync.Mutex
	created  time.Time
	lastUsed time.Time
}

// ChatInfo is a read-only view of a registered session.
type ChatInfo struct {
	ID       string    `json:"id"`
	Created  time.Time `json:"created_at"`
	LastUsed time.Time `json:"last_used_at"`
}

// ChatRegistry keeps the chat handles the host hands out to clients.
type ChatRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*chatEntry
	now      func() time.Time
}

// NewChatRegistry creates an empty registry.
func NewChatRegistry() *ChatRegistry {
	return &ChatRegistry{
		sessions: make(map[string]*chatEntry),
		now:      time.Now,
	}
}

// Add registers session and returns its new id.
func (r *ChatRegistry) Add(session insight.ChatSession) string {
	id := uuid.NewString()
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[id] = &chatEntry{session: session, created: now, lastUsed: now}
	return id
}

// Send forwards one message to the session, one turn at a time.
func (r *ChatRegistry) Send(ctx context.Context, id, text string) (string, error) {
	entry, ok := r.lookup(id)
	if !ok {
		return "", ErrChatNotFound
	}

	entry.turnMu.Lock()
	defer entry.turnMu.Unlock()

	r.touch(entry)
	return entry.session.SendMessage(ctx, text)
}

// History returns the turns exchanged so far.
func (r *ChatRegistry) History(id string) ([]insight.Turn, error) {
	entry, ok := r.lookup(id)
	if !ok {
		return nil, ErrChatNotFound
	}

	entry.turnMu.Lock()
	defer entry.turnMu.Unlock()

	return entry.session.History(), nil
}

// Info returns bookkeeping for a session.
func (r *ChatRegistry) Info(id string) (ChatInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.sessions[id]
	if !ok {
		return ChatInfo{}, false
	}
	return ChatInfo{ID: id, Created: entry.created, LastUsed: entry.lastUsed}, true
}

// Delete drops a session. Unknown ids are a no-op.
func (r *ChatRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

// EvictIdle removes sessions unused for longer than ttl and returns their ids.
func (r *ChatRegistry) EvictIdle(ttl time.Duration) []string {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for id, entry := range r.sessions {
		if entry.lastUsed.Before(cutoff) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

// Count returns the number of live sessions.
func (r *ChatRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

func (r *ChatRegistry) lookup(id string) (*chatEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.sessions[id]
	return entry, ok
}

func (r *ChatRegistry) touch(entry *chatEntry) {
	r.mu.Lock()
	entry.lastUsed = r.now()
	r.mu.Unlock()
}
